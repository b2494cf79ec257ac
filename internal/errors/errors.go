// errors разбирает ответы REST API TwainCards с кодом >= 400.
// На вход он принимает *http.Response, а на выход даёт *Error:
//   - HTTP-статус ответа;
//   - message/details из тела ошибки бэкенда (если тело разобралось);
//   - Kind — класс ошибки для ветвлений в клиенте и CLI.
//
// Тело ошибки бэкенда: {status, message, details, timestamp}; поле status
// бывает и числом, и строкой, поэтому источник истинности — код ответа.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// Предел чтения тела ошибки.
const maxBody = 64 << 10

// Kind — класс ошибки API.
type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindCanceled     Kind = "canceled"
	KindServer       Kind = "server"
	KindUnavailable  Kind = "unavailable"
	KindUnknown      Kind = "unknown"
)

// Error — ошибка, пришедшая от API.
type Error struct {
	Status  int
	Message string
	Details string
	Method  string
	Path    string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Method != "" {
		fmt.Fprintf(&b, "%s %s: ", e.Method, e.Path)
	}

	fmt.Fprintf(&b, "api error %d", e.Status)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	return b.String()
}

// Kind возвращает класс ошибки по HTTP-статусу.
func (e *Error) Kind() Kind { return kindFromStatus(e.Status) }

// envelope — тело ошибки бэкенда.
type envelope struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Error   string `json:"error"`
}

// FromResponse читает тело ответа и строит *Error. Тело закрывается вызывающим.
// Нечитаемое или не-JSON тело не считается ошибкой разбора: Message берётся
// из текста тела или из стандартной фразы статуса.
func FromResponse(resp *http.Response) *Error {
	e := &Error{Status: resp.StatusCode}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		if resp.Request.URL != nil {
			e.Path = resp.Request.URL.Path
		}
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	var env envelope
	if len(raw) > 0 && json.Unmarshal(raw, &env) == nil {
		e.Message = env.Message
		if e.Message == "" {
			e.Message = env.Error
		}
		e.Details = env.Details
	} else if txt := strings.TrimSpace(string(raw)); txt != "" && !strings.HasPrefix(txt, "<") {
		e.Message = txt
	}

	if e.Message == "" {
		e.Message = strings.ToLower(http.StatusText(resp.StatusCode))
	}

	return e
}

// KindOf возвращает класс ошибки, если в цепочке есть *Error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind()
	}

	return KindUnknown
}

// StatusOf возвращает HTTP-статус из цепочки или 0.
func StatusOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Status
	}

	return 0
}

func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// kindFromStatus — маппинг HTTP -> Kind:
//   - 400, 422 -> bad_request
//   - 401 -> unauthorized (триггер обновления токена)
//   - 403 -> forbidden (нет прав или дневной лимит, без повтора)
//   - 404 -> not_found
//   - 409, 412 -> conflict
//   - 429 -> rate_limited
//   - 499 -> canceled
//   - 502, 503, 504 -> unavailable
//   - прочие 5xx -> server
func kindFromStatus(code int) Kind {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimited
	case StatusClientClosedRequest:
		return KindCanceled
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindUnavailable
	}

	if code >= 500 {
		return KindServer
	}

	return KindUnknown
}
