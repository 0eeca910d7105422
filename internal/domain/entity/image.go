package entity

import "fmt"

// Image представляет декодированное изображение: построчный буфер 8-битных каналов.
// Для трёх каналов порядок байт RGB.
type Image struct {
	Width    int    // ширина в пикселях
	Height   int    // высота в пикселях
	Channels int    // 1 (серое) или 3 (цветное)
	Pix      []byte // len(Pix) == Width*Height*Channels
}

// NewImage создаёт чёрное изображение заданного размера.
func NewImage(width, height, channels int) (Image, error) {
	img := Image{Width: width, Height: height, Channels: channels}
	if err := img.validateShape(); err != nil {
		return Image{}, err
	}
	img.Pix = make([]byte, width*height*channels)
	return img, nil
}

// Validate проверяет размеры, число каналов и длину буфера.
func (img Image) Validate() error {
	if err := img.validateShape(); err != nil {
		return err
	}
	if want := img.Width * img.Height * img.Channels; len(img.Pix) != want {
		return fmt.Errorf("%w: pixel buffer has %d bytes, want %d", ErrInvalidImage, len(img.Pix), want)
	}
	return nil
}

func (img Image) validateShape() error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: empty image %dx%d", ErrInvalidImage, img.Width, img.Height)
	}
	if img.Channels != 1 && img.Channels != 3 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidImage, img.Channels)
	}
	return nil
}

// PixelCount возвращает Width*Height.
func (img Image) PixelCount() int {
	return img.Width * img.Height
}
