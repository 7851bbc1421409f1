package segment

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCancelled — загрузка вытеснена или отменена. Не ошибка:
	// результат молча отбрасывается.
	ErrCancelled = errors.New("fetch cancelled")
	// ErrNetwork — связь с бэкендом потеряна. Повторяемо.
	ErrNetwork = errors.New("network unreachable")
	// ErrServer — бэкенд ответил ошибкой (4xx/5xx). Повторяемо.
	ErrServer = errors.New("server error")
	// ErrNotFound — одиночная публикация не существует. Терминально.
	ErrNotFound = errors.New("not found")
)

// ServerError — ошибка бэкенда с HTTP-эквивалентом статуса и сообщением,
// которое можно показать пользователю.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status=%d: %s", e.Status, e.Message)
}

// Is позволяет errors.Is(err, ErrServer).
func (e *ServerError) Is(target error) bool { return target == ErrServer }

// ErrorKind — класс ошибки загрузки сегмента.
type ErrorKind string

const (
	KindNone      ErrorKind = ""
	KindCancelled ErrorKind = "cancelled"
	KindNetwork   ErrorKind = "network"
	KindServer    ErrorKind = "server"
	KindNotFound  ErrorKind = "not_found"
)

// Classify относит ошибку к одному из классов таксономии.
// Неизвестные ошибки считаются серверными: они повторяемы и локальны
// для сегмента.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	default:
		return KindServer
	}
}

// Message возвращает безопасное сообщение об ошибке для отображения.
func Message(err error) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}

	switch Classify(err) {
	case KindNetwork:
		return "network unreachable"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server error"
	default:
		return ""
	}
}
