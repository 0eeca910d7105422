package segmentation

// Histogram строит гистограмму яркости на 256 корзин.
func Histogram(gray []byte) [256]int {
	var hist [256]int
	for _, v := range gray {
		hist[v]++
	}
	return hist
}

// OtsuThreshold выбирает порог t, максимизирующий межклассовую дисперсию
// классов {<= t} и {> t}. Разбиение с пустым классом даёт дисперсию 0,
// при равенстве берётся наименьший t, поэтому однотонное изображение даёт 0.
func OtsuThreshold(hist [256]int) uint8 {
	total := 0
	sum := 0.0
	for v, n := range hist {
		total += n
		sum += float64(v) * float64(n)
	}

	var (
		best     uint8
		bestVar  = -1.0
		lowCount int
		lowSum   float64
	)
	for t := 0; t < len(hist); t++ {
		lowCount += hist[t]
		lowSum += float64(t) * float64(hist[t])
		highCount := total - lowCount

		variance := 0.0
		if lowCount > 0 && highCount > 0 {
			lowMean := lowSum / float64(lowCount)
			highMean := (sum - lowSum) / float64(highCount)
			d := lowMean - highMean
			variance = float64(lowCount) * float64(highCount) * d * d
		}

		if variance > bestVar {
			bestVar = variance
			best = uint8(t)
		}
	}

	return best
}
