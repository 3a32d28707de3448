package service

import "fmt"

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

// Сообщения валидации - контракт API, наружу уходят как есть
func NewValidationError(message string, details ...Detail) *BusinessError {
	return NewBusinessError("VALIDATION_ERROR", message, details...)
}

// NewReferenceError - заявка не нашлась или lookup упал;
// причину наружу не раскрываем
func NewReferenceError(err error) *BusinessError {
	busErr := NewBusinessError("INVALID_REFERENCE", "invalid application_id")
	busErr.Err = err
	return busErr
}

func NewNotFound(id string) *BusinessError {
	return NewBusinessError("NOT_FOUND", "task not found",
		ToDetail("id", id),
	)
}

// NewStorageError - ошибка хранилища после успешной валидации.
// Детали остаются в логах, клиент видит только message
func NewStorageError(message string, err error) *BusinessError {
	busErr := NewBusinessError("STORAGE_ERROR", message)
	busErr.Err = err
	return busErr
}
