package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingImage UserState = "awaiting_image" // Ожидание микрошлифа
	StateProcessing    UserState = "processing"     // Обработка изображения
)

// UserSettings настройки анализа, которые пользователь выбирает в боте
type UserSettings struct {
	ExportFormat  ExportFormat `json:"export_format"`
	MinRegionSize int          `json:"min_region_size"`
	Polarity      Polarity     `json:"polarity"`
}

// DefaultUserSettings возвращает настройки по умолчанию
func DefaultUserSettings() UserSettings {
	return UserSettings{
		ExportFormat:  FormatPNG,
		MinRegionSize: DefaultMinRegionSize,
		Polarity:      PolarityDark,
	}
}

// Params переводит настройки в параметры анализа
func (s UserSettings) Params() AnalysisParams {
	return AnalysisParams{MinRegionSize: s.MinRegionSize, Polarity: s.Polarity}
}

// User представляет пользователя бота
type User struct {
	ID       int64        `json:"id"`       // Telegram User ID
	ChatID   int64        `json:"chat_id"`  // Telegram Chat ID
	State    UserState    `json:"state"`    // Текущее состояние пользователя
	Settings UserSettings `json:"settings"` // Настройки анализа
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:       userID,
		ChatID:   chatID,
		State:    StateMainMenu,
		Settings: DefaultUserSettings(),
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}
