// stub — локальная заглушка Mango API для демонстрации и ручной проверки SDK.
//
// Поведение повторяет контракт сервера (см. internal/api): телефонная
// аутентификация с кодом подтверждения, выдача/ротация пары токенов,
// профиль текущего пользователя. Все данные живут в памяти процесса.
//
// Код подтверждения фиксирован (testCode) и пишется в лог при выдаче —
// заглушка не отправляет SMS.
package stub

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// testCode — единственный принимаемый код подтверждения.
const testCode = "133337"

// accessTTL — срок жизни access-токена заглушки.
// Короткий по умолчанию, чтобы руками наблюдать refresh-on-401.
const accessTTL = 10 * time.Minute

// profile — состояние профиля зарегистрированного пользователя.
type profile struct {
	ID            int64
	Name          string
	Username      string
	Phone         string
	Birthday      string
	City          string
	Instagram     string
	VK            string
	Status        string
	CompletedTask int
}

type session struct {
	phone   string
	expires time.Time
}

// Server — in-memory состояние заглушки.
type Server struct {
	log *slog.Logger

	mu       sync.Mutex
	nextID   int64
	profiles map[string]*profile // phone → profile
	pending  map[string]bool     // phone → код выдан
	access   map[string]session  // access token → session
	refresh  map[string]string   // refresh token → phone
}

// New создаёт заглушку и возвращает http.Handler с chi-роутером.
func New(lg *slog.Logger) (*Server, http.Handler) {
	if lg == nil {
		lg = slog.Default()
	}

	s := &Server{
		log:      lg,
		nextID:   1,
		profiles: make(map[string]*profile),
		pending:  make(map[string]bool),
		access:   make(map[string]session),
		refresh:  make(map[string]string),
	}

	r := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	r.Use(
		recoverer(),
		requestID(),
		logging(lg),
	)

	r.Post("/api/v1/users/send-auth-code/", s.handleSendCode)
	r.Post("/api/v1/users/check-auth-code/", s.handleCheckCode)
	r.Post("/api/v1/users/register/", s.handleRegister)
	r.Post("/api/v1/users/refresh-token/", s.handleRefresh)
	r.Get("/api/v1/users/me/", s.handleMe)
	r.Put("/api/v1/users/me/", s.handleUpdateMe)

	return s, r
}

// issueTokens выдаёт новую пару для phone, отзывая старый refresh.
func (s *Server) issueTokens(phone string) (access, refresh string) {
	access = newToken()
	refresh = newToken()

	s.access[access] = session{phone: phone, expires: time.Now().Add(accessTTL)}
	for old, p := range s.refresh {
		if p == phone {
			delete(s.refresh, old)
		}
	}
	s.refresh[refresh] = phone

	return access, refresh
}

// sessionPhone возвращает телефон по access-токену, если тот жив.
func (s *Server) sessionPhone(token string) (string, bool) {
	sess, ok := s.access[token]
	if !ok || time.Now().After(sess.expires) {
		return "", false
	}

	return sess.phone, true
}

func newToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
