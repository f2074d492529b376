package domain

import "errors"

// Ошибки, которые возвращают адаптеры и контроллер списка.
var (
	ErrTransport  = errors.New("catalog transport failure")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// ErrorKind - класс ошибки для слоя представления.
type ErrorKind string

const (
	ErrorKindTransport  ErrorKind = "transport"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindNotFound   ErrorKind = "not_found"
)

// ErrorDescriptor - текущая ошибка контроллера в виде, пригодном для показа.
type ErrorDescriptor struct {
	Kind      ErrorKind
	Operation string
	Message   string
}

// DescribeError классифицирует ошибку. Все, что не валидация и не 404, считается ошибкой транспорта.
func DescribeError(operation string, err error) *ErrorDescriptor {
	if err == nil {
		return nil
	}
	kind := ErrorKindTransport
	switch {
	case errors.Is(err, ErrValidation):
		kind = ErrorKindValidation
	case errors.Is(err, ErrNotFound):
		kind = ErrorKindNotFound
	}
	return &ErrorDescriptor{Kind: kind, Operation: operation, Message: err.Error()}
}
