package telegram

import (
	"errors"
	"fmt"
	"strings"

	app "eutectic-bot/internal/application"
	"eutectic-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я считаю долю эвтектической фазы на микрошлифах.

📸 Отправьте мне фото или файл изображения (PNG, JPEG, TIFF), и я:
1️⃣ переведу его в оттенки серого
2️⃣ разделю фазу и фон порогом Оцу
3️⃣ уберу мелкие точки
4️⃣ посчитаю долю фазы до и после очистки

📋 Команды:
/analyze — начать анализ
/settings — текущие настройки
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте изображение микрошлифа (лучше файлом, без сжатия)
2️⃣ Бот построит бинарную маску и удалит области меньше заданной площади
3️⃣ Вы получите долю фазы и три изображения: исходное, после порога и после очистки

⚙️ Настройки:
/format png|jpg|jpeg|tiff|tif — формат выгрузки
/minsize N — минимальная площадь области в пикселях (по умолчанию 300)
/polarity dark|bright — фаза темнее или светлее фона
/settings — показать настройки

💡 Результат в долях пикселей, без перевода в физические единицы.`

	msgAwaitingImage   = "📸 Отправьте изображение микрошлифа для анализа."
	msgCancelled       = "❌ Операция отменена. Отправьте /analyze для нового анализа."
	msgSendImage       = "📸 Пожалуйста, отправьте изображение микрошлифа."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте ещё раз."
	msgInvalidImage    = "⚠️ Не удалось прочитать изображение. Поддерживаются PNG, JPEG и TIFF."
	msgInvalidParam    = "⚠️ Недопустимые настройки анализа. Проверьте /settings."
	msgTooLarge        = "⚠️ Файл слишком большой."
	msgFormatUsage     = "Использование: /format png|jpg|jpeg|tiff|tif"
	msgMinSizeUsage    = "Использование: /minsize N, где N — целое число больше 0"
	msgPolarityUsage   = "Использование: /polarity dark|bright"
	msgPreviewCaption  = "Маска после очистки (превью)"
)

// formatPercent печатает долю в процентах с четырьмя знаками, как в исходном отчёте.
func formatPercent(f float64) string {
	return fmt.Sprintf("%.4f%%", f*100)
}

// formatReport собирает текст отчёта по результату анализа
func formatReport(res *entity.AnalysisResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Результат анализа (%d×%d)\n", res.Thresholded.Width, res.Thresholded.Height)
	fmt.Fprintf(&sb, "Порог Оцу: %d\n", res.Threshold)
	fmt.Fprintf(&sb, "Доля эвтектической фазы (до очистки): %s\n", formatPercent(res.FractionBefore))
	fmt.Fprintf(&sb, "Доля эвтектической фазы (после очистки): %s\n", formatPercent(res.FractionAfter))
	fmt.Fprintf(&sb, "Областей: %d → %d (мин. площадь %d px)", res.RegionsBefore.Count, res.RegionsAfter.Count, res.Params.MinRegionSize)
	if res.RegionsAfter.Count > 0 {
		fmt.Fprintf(&sb, "\nСредняя площадь области: %.1f px, медиана: %.1f px", res.RegionsAfter.MeanArea, res.RegionsAfter.MedianArea)
	}
	return sb.String()
}

// formatSettings печатает настройки пользователя
func formatSettings(s entity.UserSettings) string {
	polarity := "темнее фона"
	if s.Polarity == entity.PolarityBright {
		polarity = "светлее фона"
	}
	return fmt.Sprintf("⚙️ Настройки:\nФормат выгрузки: %s\nМин. площадь области: %d px\nФаза: %s",
		strings.ToUpper(string(s.ExportFormat)), s.MinRegionSize, polarity)
}

// artifactCaption подпись к выгружаемому файлу
func artifactCaption(a entity.Artifact) string {
	switch a.Name {
	case app.ArtifactOriginal:
		return "Исходное изображение"
	case app.ArtifactThresholded:
		return "После порога Оцу"
	case app.ArtifactCleaned:
		return "После удаления мелких областей"
	default:
		return a.Name
	}
}

// errorMessage переводит ошибку анализа в сообщение пользователю
func errorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidImage):
		return msgInvalidImage
	case errors.Is(err, entity.ErrInvalidParameter):
		return msgInvalidParam
	default:
		return msgProcessingError
	}
}
