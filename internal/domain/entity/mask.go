package entity

import "fmt"

const (
	MaskBackground byte = 0   // фон
	MaskForeground byte = 255 // эвтектическая фаза
)

// Mask бинарная маска: один байт на пиксель, значения только 0 или 255.
type Mask struct {
	Width  int
	Height int
	Pix    []byte
}

// NewMask создаёт маску, заполненную фоном.
func NewMask(width, height int) (Mask, error) {
	if width <= 0 || height <= 0 {
		return Mask{}, fmt.Errorf("%w: empty mask %dx%d", ErrInvalidImage, width, height)
	}
	return Mask{Width: width, Height: height, Pix: make([]byte, width*height)}, nil
}

// Validate проверяет размеры, длину буфера и то, что маска бинарная.
func (m Mask) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: empty mask %dx%d", ErrInvalidImage, m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height {
		return fmt.Errorf("%w: mask buffer has %d bytes, want %d", ErrInvalidImage, len(m.Pix), m.Width*m.Height)
	}
	for i, v := range m.Pix {
		if v != MaskBackground && v != MaskForeground {
			return fmt.Errorf("%w: mask value %d at offset %d is not binary", ErrInvalidImage, v, i)
		}
	}
	return nil
}

// Foreground возвращает число пикселей переднего плана.
func (m Mask) Foreground() int {
	n := 0
	for _, v := range m.Pix {
		if v == MaskForeground {
			n++
		}
	}
	return n
}

// Equal сравнивает две маски попиксельно.
func (m Mask) Equal(other Mask) bool {
	if m.Width != other.Width || m.Height != other.Height || len(m.Pix) != len(other.Pix) {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// AsImage представляет маску как одноканальное изображение (для экспорта).
func (m Mask) AsImage() Image {
	return Image{Width: m.Width, Height: m.Height, Channels: 1, Pix: m.Pix}
}
