package segmentation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"eutectic-bot/internal/domain/entity"
)

// DescribeRegions считает сводку по площадям областей.
func DescribeRegions(areas []int) entity.RegionStats {
	if len(areas) == 0 {
		return entity.RegionStats{}
	}

	xs := make([]float64, len(areas))
	for i, a := range areas {
		xs[i] = float64(a)
	}
	sort.Float64s(xs)

	mean, variance := stat.PopMeanVariance(xs, nil)

	mid := len(xs) / 2
	median := xs[mid]
	if len(xs)%2 == 0 {
		median = (xs[mid-1] + xs[mid]) / 2
	}

	return entity.RegionStats{
		Count:      len(xs),
		TotalArea:  int(floats.Sum(xs)),
		MinArea:    int(floats.Min(xs)),
		MaxArea:    int(floats.Max(xs)),
		MeanArea:   mean,
		MedianArea: median,
		StdDevArea: math.Sqrt(variance),
	}
}
