package segmentation

import "eutectic-bot/internal/domain/entity"

// Веса яркости BT.601 в фиксированной точке (Q14), как в типовом RGB->gray.
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaRound = 1 << (lumaShift - 1)
)

// ToGray возвращает одноканальную яркость изображения. Исходный буфер не меняется.
func ToGray(img entity.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	n := img.PixelCount()
	gray := make([]byte, n)
	if img.Channels == 1 {
		copy(gray, img.Pix)
		return gray, nil
	}

	for i, j := 0, 0; i < n; i, j = i+1, j+3 {
		r := uint32(img.Pix[j])
		g := uint32(img.Pix[j+1])
		b := uint32(img.Pix[j+2])
		gray[i] = byte((r*lumaR + g*lumaG + b*lumaB + lumaRound) >> lumaShift)
	}
	return gray, nil
}
