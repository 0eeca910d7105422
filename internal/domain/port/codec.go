package port

import "eutectic-bot/internal/domain/entity"

// ImageCodec интерфейс декодирования загрузок и кодирования результатов
type ImageCodec interface {
	// Decode превращает байты PNG/JPEG/TIFF в изображение
	Decode(data []byte) (entity.Image, error)

	// EncodeImage кодирует изображение в выбранный формат
	EncodeImage(img entity.Image, format entity.ExportFormat) ([]byte, error)

	// EncodeMask кодирует бинарную маску в выбранный формат
	EncodeMask(mask entity.Mask, format entity.ExportFormat) ([]byte, error)

	// Preview уменьшает маску для показа в чате и кодирует её в PNG
	Preview(mask entity.Mask, maxSide int) ([]byte, error)
}
