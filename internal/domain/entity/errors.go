package entity

import "errors"

// Ошибки ядра анализа. Вызывающий код оборачивает их через fmt.Errorf("%w: ...")
// и проверяет через errors.Is.
var (
	// ErrInvalidImage некорректное или пустое изображение (маска)
	ErrInvalidImage = errors.New("invalid image")
	// ErrInvalidParameter недопустимый параметр анализа
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrReportNotFound сводки с таким ID нет в хранилище
	ErrReportNotFound = errors.New("report not found")
)
