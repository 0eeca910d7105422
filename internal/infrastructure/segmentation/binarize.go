package segmentation

import (
	"fmt"

	"eutectic-bot/internal/domain/entity"
)

// Binarize переводит изображение в яркость, считает порог Оцу и строит маску.
// При PolarityDark пиксели <= порога становятся передним планом (255),
// при PolarityBright передним планом становятся пиксели > порога.
func Binarize(img entity.Image, polarity entity.Polarity) (entity.Mask, uint8, error) {
	if polarity != entity.PolarityDark && polarity != entity.PolarityBright {
		return entity.Mask{}, 0, fmt.Errorf("%w: unknown polarity %q", entity.ErrInvalidParameter, polarity)
	}

	gray, err := ToGray(img)
	if err != nil {
		return entity.Mask{}, 0, err
	}

	threshold := OtsuThreshold(Histogram(gray))

	// Переиспользуем буфер яркости под маску: он принадлежит только этому вызову.
	dark, light := entity.MaskForeground, entity.MaskBackground
	if polarity == entity.PolarityBright {
		dark, light = light, dark
	}
	for i, v := range gray {
		if v <= threshold {
			gray[i] = dark
		} else {
			gray[i] = light
		}
	}

	return entity.Mask{Width: img.Width, Height: img.Height, Pix: gray}, threshold, nil
}
