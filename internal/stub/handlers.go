package stub

import (
	"encoding/json"
	"net/http"
	"strings"

	logctx "github.com/worldproger/mango-go/pkg/log"
	"github.com/worldproger/mango-go/pkg/redact"
)

// Форматы запросов/ответов совпадают с wire-контрактом internal/api.

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

func (s *Server) handleSendCode(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
	}
	if err := decodeStrict(r, &in); err != nil || in.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	s.mu.Lock()
	s.pending[in.Phone] = true
	s.mu.Unlock()

	logctx.From(r.Context()).Info("auth_code_issued",
		"phone", redact.Phone(in.Phone),
		"code", testCode,
	)

	writeJSON(w, http.StatusOK, struct {
		IsSuccess bool `json:"is_success"`
	}{IsSuccess: true})
}

func (s *Server) handleCheckCode(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := decodeStrict(r, &in); err != nil || in.Phone == "" || in.Code == "" {
		writeError(w, http.StatusBadRequest, "phone and code are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending[in.Phone] || in.Code != testCode {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	delete(s.pending, in.Phone)

	type resp struct {
		IsUserExists bool    `json:"is_user_exists"`
		AccessToken  *string `json:"access_token,omitempty"`
		RefreshToken *string `json:"refresh_token,omitempty"`
		UserID       *int64  `json:"user_id,omitempty"`
	}

	p, exists := s.profiles[in.Phone]
	if !exists {
		// Новый номер: токены появятся после регистрации.
		writeJSON(w, http.StatusOK, resp{IsUserExists: false})
		return
	}

	access, refresh := s.issueTokens(in.Phone)
	writeJSON(w, http.StatusOK, resp{
		IsUserExists: true,
		AccessToken:  &access,
		RefreshToken: &refresh,
		UserID:       &p.ID,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Username string `json:"username"`
	}
	if err := decodeStrict(r, &in); err != nil || in.Phone == "" || in.Name == "" || in.Username == "" {
		writeError(w, http.StatusBadRequest, "phone, name and username are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[in.Phone]; exists {
		writeError(w, http.StatusBadRequest, "user already exists")
		return
	}

	p := &profile{
		ID:       s.nextID,
		Name:     in.Name,
		Username: in.Username,
		Phone:    in.Phone,
	}
	s.nextID++
	s.profiles[in.Phone] = p

	access, refresh := s.issueTokens(in.Phone)
	writeJSON(w, http.StatusCreated, struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		UserID       int64  `json:"user_id"`
	}{AccessToken: access, RefreshToken: refresh, UserID: p.ID})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	phone, ok := s.refresh[in.RefreshToken]
	if !ok {
		writeError(w, http.StatusUnauthorized, "refresh token is invalid")
		return
	}

	access, refresh := s.issueTokens(phone)
	writeJSON(w, http.StatusOK, struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}{AccessToken: access, RefreshToken: refresh})
}

// bearerPhone извлекает и проверяет bearer-токен запроса.
func (s *Server) bearerPhone(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessionPhone(strings.TrimSpace(auth[len(prefix):]))
}

type userDTO struct {
	ID            int64   `json:"id"`
	Avatar        *string `json:"avatar"`
	Avatars       any     `json:"avatars"`
	Birthday      *string `json:"birthday"`
	City          *string `json:"city"`
	CompletedTask int     `json:"completed_task"`
	Instagram     *string `json:"instagram"`
	Last          *string `json:"last"`
	Name          string  `json:"name"`
	Online        bool    `json:"online"`
	Phone         string  `json:"phone"`
	Status        *string `json:"status"`
	Username      string  `json:"username"`
	VK            *string `json:"vk"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	phone, ok := s.bearerPhone(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	s.mu.Lock()
	p := s.profiles[phone]
	s.mu.Unlock()
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	// Разрешаем SDK кэшировать профиль: кэш-онли вариант GET users/me/
	// обслуживается именно отсюда.
	w.Header().Set("Cache-Control", "private, max-age=600")

	writeJSON(w, http.StatusOK, struct {
		ProfileData userDTO `json:"profile_data"`
	}{ProfileData: userDTO{
		ID:            p.ID,
		Birthday:      optional(p.Birthday),
		City:          optional(p.City),
		CompletedTask: p.CompletedTask,
		Instagram:     optional(p.Instagram),
		Name:          p.Name,
		Online:        true,
		Phone:         p.Phone,
		Status:        optional(p.Status),
		Username:      p.Username,
		VK:            optional(p.VK),
	}})
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	phone, ok := s.bearerPhone(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	var in struct {
		Avatar *struct {
			Base64   string `json:"base_64"`
			Filename string `json:"filename"`
		} `json:"avatar"`
		Birthday  *string `json:"birthday"`
		City      *string `json:"city"`
		Instagram *string `json:"instagram"`
		Name      *string `json:"name"`
		Status    *string `json:"status"`
		Username  *string `json:"username"`
		VK        *string `json:"vk"`
	}
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profiles[phone]
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Username != nil {
		p.Username = *in.Username
	}
	if in.Birthday != nil {
		p.Birthday = *in.Birthday
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.Instagram != nil {
		p.Instagram = *in.Instagram
	}
	if in.VK != nil {
		p.VK = *in.VK
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	// Аватар заглушка принимает, но не хранит: ссылки на варианты
	// изображений отдаёт только боевой сервер.

	writeJSON(w, http.StatusOK, struct {
		Updated bool `json:"updated"`
	}{Updated: true})
}
