// apierr — закрытая таксономия ошибок сетевого слоя.
//
// Каждый отказ транспорта/HTTP/декодирования отображается ровно в один Kind;
// классификация (Classify, FromStatus) никогда не паникует и не возвращает
// «сырые» ошибки наружу — это граница, за которую исключения не выходят.
package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
)

// Kind — вид ошибки. Набор закрыт; новые значения добавляются только здесь.
type Kind int

const (
	// Unknown — неклассифицируемая причина (текст сохраняется в Message).
	Unknown Kind = iota
	// NoInternet — сбой связности: DNS, соединение отклонено/сброшено, нет маршрута.
	NoInternet
	// RequestTimeout — дедлайн истёк до получения ответа.
	RequestTimeout
	// Serialization — тело ответа не декодируется в ожидаемую форму.
	Serialization
	// BadRequest — HTTP 400.
	BadRequest
	// Unauthorized — HTTP 401.
	Unauthorized
	// Forbidden — HTTP 403.
	Forbidden
	// NotFound — HTTP 404.
	NotFound
	// PayloadTooLarge — HTTP 413.
	PayloadTooLarge
	// TooManyRequests — HTTP 429.
	TooManyRequests
	// ServerError — HTTP 500–599.
	ServerError
	// BadResponse — прочие неожиданные HTTP-статусы (не 2xx и не из таблицы выше).
	BadResponse
)

func (k Kind) String() string {
	switch k {
	case NoInternet:
		return "no_internet"
	case RequestTimeout:
		return "request_timeout"
	case Serialization:
		return "serialization"
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case PayloadTooLarge:
		return "payload_too_large"
	case TooManyRequests:
		return "too_many_requests"
	case ServerError:
		return "server_error"
	case BadResponse:
		return "bad_response"
	default:
		return "unknown"
	}
}

// Error — классифицированная ошибка границы API.
// Message — человекочитаемое пояснение из тела ответа, если оно было разборчиво.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is позволяет сравнивать через errors.Is по виду ошибки.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Is сообщает, классифицирована ли err (в том числе обёрнутая) как kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// errorMessage — формат тела ошибки API: {"message": "..."}.
type errorMessage struct {
	Message string `json:"message"`
}

// FromStatus отображает не-2xx HTTP-статус в Kind по фиксированной таблице.
// Тело ответа разбирается как {"message": string} по возможности;
// неразборчивое тело даёт пустой Message и никогда не являются ошибкой сами по себе.
func FromStatus(status int, body []byte) *Error {
	var kind Kind
	switch {
	case status == http.StatusBadRequest:
		kind = BadRequest
	case status == http.StatusUnauthorized:
		kind = Unauthorized
	case status == http.StatusForbidden:
		kind = Forbidden
	case status == http.StatusNotFound:
		kind = NotFound
	case status == http.StatusRequestEntityTooLarge:
		kind = PayloadTooLarge
	case status == http.StatusTooManyRequests:
		kind = TooManyRequests
	case status >= 500 && status <= 599:
		kind = ServerError
	default:
		kind = BadResponse
	}

	return &Error{Kind: kind, Message: parseMessage(body)}
}

// parseMessage достаёт message из тела ошибки; молча возвращает "" при любом сбое.
func parseMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var em errorMessage
	if err := json.Unmarshal(body, &em); err != nil {
		return ""
	}

	return em.Message
}

// Classify приводит произвольную ошибку сетевого вызова к *Error.
//
// Порядок проверок:
//  1. уже классифицированная *Error — как есть;
//  2. истёкший дедлайн/таймаут — RequestTimeout;
//  3. сбой связности (DNS, refused/reset, обрыв соединения) — NoInternet;
//  4. ошибки декодирования JSON — Serialization;
//  5. всё остальное — Unknown с текстом причины.
func Classify(err error) *Error {
	if err == nil {
		return &Error{Kind: Unknown, Message: "nil error"}
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if isTimeout(err) {
		return &Error{Kind: RequestTimeout}
	}

	if isConnectivity(err) {
		return &Error{Kind: NoInternet}
	}

	if isSerialization(err) {
		return &Error{Kind: Serialization, Message: err.Error()}
	}

	return &Error{Kind: Unknown, Message: err.Error()}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isConnectivity(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		return true
	}

	// url.Error без более точной причины: считаем сбоем связности,
	// если это не таймаут (проверен выше). Сюда же попадает обрыв
	// соединения (EOF внутри url.Error) — голый EOF из декодера
	// связностью не является, см. isSerialization.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return !strings.Contains(urlErr.Err.Error(), "unsupported protocol")
	}

	return false
}

// isSerialization ловит ошибки декодирования ответа, включая EOF:
// пустое или оборванное тело при уже полученном статусе — это ответ,
// не уложившийся в ожидаемую форму, а не потеря сети.
func isSerialization(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var invalidErr *json.InvalidUnmarshalError

	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &invalidErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
