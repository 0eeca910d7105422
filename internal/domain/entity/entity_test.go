package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageValidate(t *testing.T) {
	tests := []struct {
		name    string
		img     Image
		wantErr bool
	}{
		{name: "gray", img: Image{Width: 2, Height: 2, Channels: 1, Pix: make([]byte, 4)}},
		{name: "rgb", img: Image{Width: 2, Height: 1, Channels: 3, Pix: make([]byte, 6)}},
		{name: "zero width", img: Image{Width: 0, Height: 2, Channels: 1}, wantErr: true},
		{name: "zero height", img: Image{Width: 2, Height: 0, Channels: 3}, wantErr: true},
		{name: "two channels", img: Image{Width: 1, Height: 1, Channels: 2, Pix: make([]byte, 2)}, wantErr: true},
		{name: "four channels", img: Image{Width: 1, Height: 1, Channels: 4, Pix: make([]byte, 4)}, wantErr: true},
		{name: "short buffer", img: Image{Width: 2, Height: 2, Channels: 1, Pix: make([]byte, 3)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidImage))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMaskValidate(t *testing.T) {
	m, err := NewMask(3, 2)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	m.Pix[4] = 128
	err = m.Validate()
	require.ErrorIs(t, err, ErrInvalidImage)

	_, err = NewMask(0, 5)
	require.ErrorIs(t, err, ErrInvalidImage)
}

func TestMaskForegroundAndEqual(t *testing.T) {
	a := Mask{Width: 2, Height: 2, Pix: []byte{0, 255, 255, 0}}
	b := Mask{Width: 2, Height: 2, Pix: []byte{0, 255, 255, 0}}
	c := Mask{Width: 2, Height: 2, Pix: []byte{0, 255, 0, 0}}

	assert.Equal(t, 2, a.Foreground())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Mask{Width: 4, Height: 1, Pix: a.Pix}))
}

func TestParsePolarity(t *testing.T) {
	p, err := ParsePolarity("")
	require.NoError(t, err)
	assert.Equal(t, PolarityDark, p)

	p, err = ParsePolarity(" Bright ")
	require.NoError(t, err)
	assert.Equal(t, PolarityBright, p)

	_, err = ParsePolarity("grey")
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestAnalysisParamsValidate(t *testing.T) {
	require.NoError(t, DefaultAnalysisParams().Validate())

	err := AnalysisParams{MinRegionSize: 0, Polarity: PolarityDark}.Validate()
	require.ErrorIs(t, err, ErrInvalidParameter)

	err = AnalysisParams{MinRegionSize: -5, Polarity: PolarityDark}.Validate()
	require.ErrorIs(t, err, ErrInvalidParameter)

	err = AnalysisParams{MinRegionSize: 1, Polarity: "auto"}.Validate()
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ExportFormat
		ext  string
	}{
		{in: "PNG", want: FormatPNG, ext: "png"},
		{in: "jpg", want: FormatJPEG, ext: "jpg"},
		{in: "JPEG", want: FormatJPEG, ext: "jpg"},
		{in: ".tif", want: FormatTIFF, ext: "tiff"},
		{in: "TIFF", want: FormatTIFF, ext: "tiff"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExportFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ext, got.Extension())
		})
	}

	_, err := ParseExportFormat("gif")
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestArtifactFilename(t *testing.T) {
	a := Artifact{Name: "cleaned_binary", Format: FormatJPEG}
	assert.Equal(t, "cleaned_binary.jpg", a.Filename())
	assert.Equal(t, "image/jpeg", a.Format.MIME())
}
