package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда викторина или другой ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации тела запроса
	// (пустое имя, неизвестный тип вопроса, некорректные опции).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRequest используется для некорректных параметров запроса
	// (отсутствующий или нечисловой идентификатор).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternal используется для любых ошибок слоя хранения.
	// Детали логируются на сервере и не раскрываются клиенту.
	ErrInternal = errors.New("internal error")
)
