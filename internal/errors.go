package internal

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrConflict           = errors.New("conflict")
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}
