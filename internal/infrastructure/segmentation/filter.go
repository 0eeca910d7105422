package segmentation

import (
	"fmt"

	"eutectic-bot/internal/domain/entity"
)

// FilterResult итог удаления мелких областей.
type FilterResult struct {
	Cleaned     entity.Mask
	Areas       []int // площади всех областей исходной маски
	KeptAreas   []int // площади сохранённых областей
	MinSize     int
	RemovedArea int // число пикселей, снятых с переднего плана
}

// Filter удаляет 8-связные области площадью меньше minSize.
// Метки размечаются один раз, затем выходная маска строится одним проходом
// по множеству сохранённых меток.
func Filter(mask entity.Mask, minSize int) (*FilterResult, error) {
	if minSize <= 0 {
		return nil, fmt.Errorf("%w: min region size must be positive, got %d", entity.ErrInvalidParameter, minSize)
	}

	labeling, err := Label(mask)
	if err != nil {
		return nil, err
	}

	keep := make([]bool, len(labeling.Areas))
	areas := labeling.RegionAreas()
	kept := make([]int, 0, len(areas))
	removed := 0
	for l := 1; l < len(labeling.Areas); l++ {
		area := labeling.Areas[l]
		if area >= minSize {
			keep[l] = true
			kept = append(kept, area)
		} else {
			removed += area
		}
	}

	out := make([]byte, len(mask.Pix))
	for i, l := range labeling.Labels {
		if keep[l] {
			out[i] = entity.MaskForeground
		}
	}

	return &FilterResult{
		Cleaned:     entity.Mask{Width: mask.Width, Height: mask.Height, Pix: out},
		Areas:       areas,
		KeptAreas:   kept,
		MinSize:     minSize,
		RemovedArea: removed,
	}, nil
}

// RemoveSmallObjects возвращает только очищенную маску.
func RemoveSmallObjects(mask entity.Mask, minSize int) (entity.Mask, error) {
	res, err := Filter(mask, minSize)
	if err != nil {
		return entity.Mask{}, err
	}
	return res.Cleaned, nil
}
