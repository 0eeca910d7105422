package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // регистрация декодера JPEG
	_ "image/png"  // регистрация декодера PNG

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp" // регистрация декодера BMP
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // регистрация декодера WebP

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

const defaultJPEGQuality = 95

// Codec декодирует загрузки и кодирует результаты в PNG/JPEG/TIFF.
type Codec struct {
	JPEGQuality int
}

// NewCodec создаёт кодек с качеством JPEG по умолчанию.
func NewCodec() *Codec {
	return &Codec{JPEGQuality: defaultJPEGQuality}
}

// Decode превращает байты изображения в entity.Image.
// Серые изображения остаются одноканальными, остальные приводятся к RGB без альфы.
func (c *Codec) Decode(data []byte) (entity.Image, error) {
	if len(data) == 0 {
		return entity.Image{}, fmt.Errorf("%w: empty upload", entity.ErrInvalidImage)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return entity.Image{}, fmt.Errorf("%w: decode: %v", entity.ErrInvalidImage, err)
	}

	return FromImage(src)
}

// FromImage переводит image.Image в entity.Image.
func FromImage(src image.Image) (entity.Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return entity.Image{}, fmt.Errorf("%w: empty image %dx%d", entity.ErrInvalidImage, w, h)
	}

	switch g := src.(type) {
	case *image.Gray:
		pix := make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], g.Pix[off:off+w])
		}
		return entity.Image{Width: w, Height: h, Channels: 1, Pix: pix}, nil

	case *image.Gray16:
		pix := make([]byte, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				pix[y*w+x] = color.GrayModel.Convert(g.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			}
		}
		return entity.Image{Width: w, Height: h, Channels: 1, Pix: pix}, nil
	}

	// imaging.Clone отдаёт неумноженный NRGBA: цвет без влияния альфы.
	nrgba := imaging.Clone(src)
	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			copy(pix[(y*w+x)*3:(y*w+x)*3+3], row[x*4:x*4+3])
		}
	}
	return entity.Image{Width: w, Height: h, Channels: 3, Pix: pix}, nil
}

// ToImage переводит entity.Image в image.Image для кодирования.
func ToImage(img entity.Image) (image.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, img.Width, img.Height)
	if img.Channels == 1 {
		gray := image.NewGray(rect)
		copy(gray.Pix, img.Pix)
		return gray, nil
	}

	nrgba := image.NewNRGBA(rect)
	for i, j := 0, 0; i < len(img.Pix); i, j = i+3, j+4 {
		nrgba.Pix[j] = img.Pix[i]
		nrgba.Pix[j+1] = img.Pix[i+1]
		nrgba.Pix[j+2] = img.Pix[i+2]
		nrgba.Pix[j+3] = 0xff
	}
	return nrgba, nil
}

// EncodeImage кодирует изображение в выбранный формат.
func (c *Codec) EncodeImage(img entity.Image, format entity.ExportFormat) ([]byte, error) {
	src, err := ToImage(img)
	if err != nil {
		return nil, err
	}
	return c.encode(src, format)
}

// EncodeMask кодирует бинарную маску в выбранный формат.
func (c *Codec) EncodeMask(mask entity.Mask, format entity.ExportFormat) ([]byte, error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	return c.EncodeImage(mask.AsImage(), format)
}

// Preview уменьшает маску так, чтобы большая сторона не превышала maxSide, и кодирует в PNG.
// Маленькие маски не увеличиваются.
func (c *Codec) Preview(mask entity.Mask, maxSide int) ([]byte, error) {
	if maxSide <= 0 {
		return nil, fmt.Errorf("%w: preview size must be positive, got %d", entity.ErrInvalidParameter, maxSide)
	}
	src, err := ToImage(mask.AsImage())
	if err != nil {
		return nil, err
	}

	// Ближайший сосед сохраняет маску двухцветной.
	fitted := imaging.Fit(src, maxSide, maxSide, imaging.NearestNeighbor)
	return c.encode(fitted, entity.FormatPNG)
}

func (c *Codec) encode(img image.Image, format entity.ExportFormat) ([]byte, error) {
	var (
		buf bytes.Buffer
		err error
	)

	switch format {
	case entity.FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case entity.FormatJPEG:
		quality := c.JPEGQuality
		if quality <= 0 {
			quality = defaultJPEGQuality
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case entity.FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidParameter, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// Проверка реализации интерфейса
var _ port.ImageCodec = (*Codec)(nil)
