//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
	"eutectic-bot/internal/infrastructure/segmentation"
)

// GoCVAnalyzer считает долю эвтектической фазы через OpenCV.
type GoCVAnalyzer struct {
	Connectivity int
}

// NewGoCVAnalyzer создаёт анализатор на OpenCV с 8-связностью.
func NewGoCVAnalyzer() *GoCVAnalyzer {
	return &GoCVAnalyzer{Connectivity: 8}
}

// Analyze бинаризует изображение порогом Оцу, удаляет мелкие области и считает доли.
func (a *GoCVAnalyzer) Analyze(ctx context.Context, img entity.Image, params entity.AnalysisParams) (*entity.AnalysisResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gray, err := toGrayMat(img)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	thresholdType := gocv.ThresholdBinaryInv
	if params.Polarity == entity.PolarityBright {
		thresholdType = gocv.ThresholdBinary
	}

	thresh := gocv.NewMat()
	defer thresh.Close()
	t := gocv.Threshold(gray, &thresh, 0, 255, thresholdType|gocv.ThresholdOtsu)

	maskPix, err := thresh.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("read threshold mat: %w", err)
	}
	mask := entity.Mask{Width: img.Width, Height: img.Height, Pix: append([]byte(nil), maskPix...)}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned, areas, kept, err := a.removeSmallObjects(thresh, params.MinRegionSize)
	if err != nil {
		return nil, err
	}

	before, err := segmentation.Fraction(mask)
	if err != nil {
		return nil, err
	}
	after, err := segmentation.Fraction(cleaned)
	if err != nil {
		return nil, err
	}

	return &entity.AnalysisResult{
		Threshold:      uint8(t),
		Thresholded:    mask,
		Cleaned:        cleaned,
		FractionBefore: before,
		FractionAfter:  after,
		RegionsBefore:  segmentation.DescribeRegions(areas),
		RegionsAfter:   segmentation.DescribeRegions(kept),
		Params:         params,
	}, nil
}

// removeSmallObjects размечает компоненты один раз и собирает маску по множеству сохранённых меток.
func (a *GoCVAnalyzer) removeSmallObjects(mask gocv.Mat, minSize int) (entity.Mask, []int, []int, error) {
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStatsWithParams(mask, &labels, &stats, &centroids,
		a.Connectivity, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)

	// Метка 0 фон.
	keep := make([]bool, n)
	areas := make([]int, 0, n)
	kept := make([]int, 0, n)
	for i := 1; i < n; i++ {
		area := int(stats.GetIntAt(i, int(gocv.CC_STAT_AREA)))
		areas = append(areas, area)
		if area >= minSize {
			keep[i] = true
			kept = append(kept, area)
		}
	}

	labelPix, err := labels.DataPtrInt32()
	if err != nil {
		return entity.Mask{}, nil, nil, fmt.Errorf("read labels mat: %w", err)
	}

	out := make([]byte, len(labelPix))
	for i, l := range labelPix {
		if keep[l] {
			out[i] = entity.MaskForeground
		}
	}

	return entity.Mask{Width: mask.Cols(), Height: mask.Rows(), Pix: out}, areas, kept, nil
}

// toGrayMat превращает изображение в одноканальный gocv.Mat.
func toGrayMat(img entity.Image) (gocv.Mat, error) {
	matType := gocv.MatTypeCV8UC1
	if img.Channels == 3 {
		matType = gocv.MatTypeCV8UC3
	}

	src, err := gocv.NewMatFromBytes(img.Height, img.Width, matType, img.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	if img.Channels == 1 {
		return src, nil
	}
	defer src.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(src, &gray, gocv.ColorRGBToGray)
	return gray, nil
}

// Проверка реализации интерфейса
var _ port.PhaseAnalyzer = (*GoCVAnalyzer)(nil)
