package entity

import (
	"fmt"
	"strings"
)

// ExportFormat формат выгрузки изображений.
type ExportFormat string

const (
	FormatPNG  ExportFormat = "png"
	FormatJPEG ExportFormat = "jpeg"
	FormatTIFF ExportFormat = "tiff"
)

// ParseExportFormat принимает те же варианты, что и выпадающий список: PNG, JPG, JPEG, TIFF, TIF.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidParameter, s)
	}
}

// Extension возвращает расширение файла без точки.
func (f ExportFormat) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatTIFF:
		return "tiff"
	default:
		return "png"
	}
}

// MIME возвращает MIME-тип формата.
func (f ExportFormat) MIME() string {
	return "image/" + string(f)
}

// Artifact закодированное изображение, готовое к отправке или сохранению.
type Artifact struct {
	Name   string // базовое имя: original, otsu_thresh, cleaned_binary
	Format ExportFormat
	Data   []byte
}

// Filename возвращает имя файла с расширением.
func (a Artifact) Filename() string {
	return a.Name + "." + a.Format.Extension()
}
