package segmentation

import "eutectic-bot/internal/domain/entity"

// Labeling разметка 8-связных областей маски.
type Labeling struct {
	Width  int
	Height int
	// Labels метка каждого пикселя: 0 фон, 1..Count() области.
	// Метки назначаются в порядке первого появления при построчном обходе.
	Labels []int32
	// Areas площадь области по метке, Areas[0] всегда 0.
	Areas []int
}

// Count возвращает число областей.
func (l *Labeling) Count() int {
	return len(l.Areas) - 1
}

// RegionAreas возвращает площади областей без фона.
func (l *Labeling) RegionAreas() []int {
	return l.Areas[1:]
}

// Label размечает области переднего плана с 8-связностью (соседство по стороне или углу).
// Два прохода с системой непересекающихся множеств, O(W*H).
func Label(mask entity.Mask) (*Labeling, error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}

	w, h := mask.Width, mask.Height
	labels := make([]int32, w*h)
	parent := []int32{0}

	find := func(x int32) int32 {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int32) int32 {
		ra, rb := find(a), find(b)
		switch {
		case ra == rb:
			return ra
		case ra < rb:
			parent[rb] = ra
			return ra
		default:
			parent[ra] = rb
			return rb
		}
	}

	// Первый проход: у каждого пикселя уже просмотрены соседи W, NW, N, NE.
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			i := row + x
			if mask.Pix[i] != entity.MaskForeground {
				continue
			}

			var (
				nb [4]int32
				k  int
			)
			if x > 0 {
				nb[k] = labels[i-1]
				k++
			}
			if y > 0 {
				up := i - w
				if x > 0 {
					nb[k] = labels[up-1]
					k++
				}
				nb[k] = labels[up]
				k++
				if x < w-1 {
					nb[k] = labels[up+1]
					k++
				}
			}

			var cur int32
			for _, n := range nb[:k] {
				switch {
				case n == 0:
				case cur == 0:
					cur = find(n)
				default:
					cur = union(cur, n)
				}
			}

			if cur == 0 {
				cur = int32(len(parent))
				parent = append(parent, cur)
			}
			labels[i] = cur
		}
	}

	// Второй проход: сжимаем корни в последовательные метки и сразу считаем площади.
	remap := make([]int32, len(parent))
	areas := []int{0}
	for i, l := range labels {
		if l == 0 {
			continue
		}
		root := find(l)
		if remap[root] == 0 {
			remap[root] = int32(len(areas))
			areas = append(areas, 0)
		}
		nl := remap[root]
		labels[i] = nl
		areas[nl]++
	}

	return &Labeling{Width: w, Height: h, Labels: labels, Areas: areas}, nil
}
