package entity

// RegionStats сводка по 8-связным областям маски.
type RegionStats struct {
	Count      int     `json:"count"`       // число областей
	TotalArea  int     `json:"total_area"`  // суммарная площадь, пикселей
	MinArea    int     `json:"min_area"`    // площадь наименьшей области
	MaxArea    int     `json:"max_area"`    // площадь наибольшей области
	MeanArea   float64 `json:"mean_area"`   // средняя площадь
	MedianArea float64 `json:"median_area"` // медиана площадей
	StdDevArea float64 `json:"stddev_area"` // стандартное отклонение площадей
}
