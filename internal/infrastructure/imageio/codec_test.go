package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eutectic-bot/internal/domain/entity"
)

func TestDecode_GrayPNG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(src.Pix, []byte{0, 50, 100, 150, 200, 250})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := NewCodec().Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, 1, img.Channels)
	assert.Equal(t, []byte{0, 50, 100, 150, 200, 250}, img.Pix)
}

func TestDecode_ColorPNGDropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := NewCodec().Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Channels)
	assert.Equal(t, []byte{10, 20, 30, 200, 100, 50}, img.Pix)
}

func TestDecode_Invalid(t *testing.T) {
	codec := NewCodec()

	_, err := codec.Decode(nil)
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = codec.Decode([]byte("definitely not an image"))
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}

func TestEncodeMask_RoundTrip(t *testing.T) {
	mask := entity.Mask{Width: 4, Height: 2, Pix: []byte{0, 255, 255, 0, 255, 0, 0, 255}}
	codec := NewCodec()

	for _, format := range []entity.ExportFormat{entity.FormatPNG, entity.FormatTIFF} {
		t.Run(string(format), func(t *testing.T) {
			data, err := codec.EncodeMask(mask, format)
			require.NoError(t, err)

			img, err := codec.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, 1, img.Channels)
			assert.Equal(t, mask.Pix, img.Pix)
		})
	}
}

func TestEncodeImage_JPEG(t *testing.T) {
	img := entity.Image{Width: 16, Height: 8, Channels: 3, Pix: make([]byte, 16*8*3)}
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	data, err := NewCodec().EncodeImage(img, entity.FormatJPEG)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}

func TestEncode_Errors(t *testing.T) {
	codec := NewCodec()

	_, err := codec.EncodeMask(entity.Mask{Width: 1, Height: 1, Pix: []byte{3}}, entity.FormatPNG)
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = codec.EncodeImage(entity.Image{Width: 1, Height: 1, Channels: 1, Pix: []byte{3}}, "gif")
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestPreview(t *testing.T) {
	mask, err := entity.NewMask(200, 100)
	require.NoError(t, err)
	codec := NewCodec()

	data, err := codec.Preview(mask, 50)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)

	data, err = codec.Preview(mask, 1000)
	require.NoError(t, err)
	cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)

	_, err = codec.Preview(mask, 0)
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}
