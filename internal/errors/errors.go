// errors стандартизирует ответы об ошибках HTTP-слоя portal-gateway.
// На вход он принимает ошибку (доменную ошибку сессии/навигации,
// классифицированную ошибку загрузки сегмента или gRPC-статус),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Таблица gRPC -> HTTP (HTTPStatusFromCode) используется также транспортом
// бэкенда контента для классификации серверных ошибок сегментов.
package errors

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/news-portal/internal/navigation"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/segment"
	"github.com/pribylovaa/news-portal/internal/session"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrInvalidArgument — некорректный запрос HTTP-слоя (тело, параметры).
var ErrInvalidArgument = goerrors.New("invalid argument")

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует входную ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: 500/internal;
//   - доменные ошибки шлюза маппятся по таблице domain();
//   - gRPC-статус маппится через baseFromGRPC();
//   - прочее - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, response("internal", "internal error")
	}

	if httpStatus, code, msg, ok := domain(err); ok {
		return httpStatus, response(code, msg)
	}

	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, response("internal", "internal error")
	}

	httpStatus, code, msg := baseFromGRPC(st.Code())
	return httpStatus, response(code, msg)
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// HTTPStatusFromCode возвращает HTTP-эквивалент gRPC-кода.
func HTTPStatusFromCode(c codes.Code) int {
	httpStatus, _, _ := baseFromGRPC(c)
	return httpStatus
}

func response(code, msg string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// domain — маппинг доменных ошибок шлюза.
func domain(err error) (int, string, string, bool) {
	var se *segment.ServerError

	switch {
	case goerrors.Is(err, ErrInvalidArgument), goerrors.Is(err, navigation.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument", true
	case goerrors.Is(err, route.ErrUnknownRoute):
		return http.StatusBadRequest, "unknown_route", "unknown route", true
	case goerrors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found", "session not found", true
	case goerrors.Is(err, session.ErrTooManySessions):
		return http.StatusServiceUnavailable, "too_many_sessions", "too many sessions", true
	case goerrors.Is(err, navigation.ErrNoHistory):
		return http.StatusConflict, "no_history", "no history", true
	case goerrors.Is(err, segment.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found", true
	case goerrors.Is(err, segment.ErrNetwork):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable", true
	case goerrors.As(err, &se):
		return http.StatusBadGateway, "upstream_error", "upstream error", true
	case goerrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded", true
	case goerrors.Is(err, context.Canceled), goerrors.Is(err, segment.ErrCancelled):
		return StatusClientClosedRequest, "canceled", "canceled", true
	default:
		return 0, "", "", false
	}
}

// baseFromGRPC — базовый маппинг gRPC -> HTTP/FE-код/сообщение.
//   - InvalidArgument -> 400
//   - NotFound -> 404
//   - AlreadyExists, Aborted -> 409
//   - FailedPrecondition -> 412
//   - Unauthenticated -> 401
//   - PermissionDenied -> 403
//   - ResourceExhausted -> 429
//   - Canceled -> 499 (клиент закрыл соединение)
//   - DeadlineExceeded -> 504
//   - Unavailable -> 503
//   - Unimplemented -> 501
//   - прочее -> 500/internal
func baseFromGRPC(c codes.Code) (int, string, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case codes.NotFound:
		return http.StatusNotFound, "not_found", "not found"
	case codes.AlreadyExists:
		return http.StatusConflict, "already_exists", "already exists"
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed, "failed_precondition", "failed precondition"
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case codes.PermissionDenied:
		return http.StatusForbidden, "permission_denied", "permission denied"
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests, "resource_exhausted", "resource exhausted"
	case codes.Aborted:
		return http.StatusConflict, "aborted", "aborted"
	case codes.Canceled:
		return StatusClientClosedRequest, "canceled", "canceled"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case codes.Unimplemented:
		return http.StatusNotImplemented, "unimplemented", "unimplemented"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
