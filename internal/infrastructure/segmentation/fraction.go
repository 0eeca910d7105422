package segmentation

import "eutectic-bot/internal/domain/entity"

// Fraction возвращает долю пикселей переднего плана: count(255) / (W*H).
func Fraction(mask entity.Mask) (float64, error) {
	if err := mask.Validate(); err != nil {
		return 0, err
	}
	return float64(mask.Foreground()) / float64(len(mask.Pix)), nil
}
