package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/worldproger/mango-go/internal/creds"
	"github.com/worldproger/mango-go/internal/models"
	"github.com/worldproger/mango-go/pkg/apierr"
	"github.com/worldproger/mango-go/pkg/redact"
)

// ErrNoSession — в хранилище нет refresh-токена: обновлять нечего,
// это терминальный отказ аутентификации для текущего запроса.
var ErrNoSession = errors.New("no session to refresh")

// maxBufferedBody — столько байт тела 401-ответа буферизуем для возврата наверх.
const maxBufferedBody = 1 << 20

// Refresher обменивает refresh-токен на новую пару.
// Реализуется api.AuthClient; интерфейс объявлен на стороне потребителя.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

// BearerSource — провайдер bearer-токена авторизованного транспорта.
//
// Состояние:
//   - кэш текущего access-токена; сбрасывается по сигналу OnChange хранилища
//     (Save/Clear), так что следующий запрос всегда читает актуальное значение;
//   - single-flight обновления: N одновременных 401 порождают ровно один вызов
//     refresh-эндпойнта, остальные ждут общий исход.
type BearerSource struct {
	store     creds.Store
	refresher Refresher
	timeout   time.Duration
	log       *slog.Logger

	mu     sync.Mutex
	token  string
	loaded bool

	sf singleflight.Group
}

// NewBearerSource создаёт провайдер и подписывает его на изменения хранилища.
func NewBearerSource(store creds.Store, refresher Refresher, timeout time.Duration, lg *slog.Logger) *BearerSource {
	if lg == nil {
		lg = slog.Default()
	}

	s := &BearerSource{
		store:     store,
		refresher: refresher,
		timeout:   timeout,
		log:       lg,
	}
	store.OnChange(s.Invalidate)

	return s
}

// Token возвращает текущий access-токен ("" — сессии нет).
// Чтение хранилища кэшируется до ближайшей инвалидации.
func (s *BearerSource) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.token
	}

	if pair, ok := s.store.Tokens(); ok {
		s.token = pair.Access
	} else {
		s.token = ""
	}
	s.loaded = true

	return s.token
}

// Invalidate сбрасывает кэш токена; вызывается хранилищем после Save/Clear.
func (s *BearerSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.loaded = false
	s.mu.Unlock()
}

// Refreshed выполняет single-flight обновление пары и возвращает новый
// access-токен.
//
// Контракт:
//   - refresh-токен читается из хранилища; его отсутствие — ErrNoSession
//     без сетевого вызова;
//   - успех: пара сохраняется через Save (с его гарантией видимости),
//     все ожидающие получают новый access-токен;
//   - Unauthorized при обновлении: сессия мертва, хранилище очищается;
//   - любой иной отказ: хранилище не трогаем (временный сбой);
//   - отмена контекста одного из ожидающих не прерывает общий refresh —
//     он выполняется на отвязанном контексте с собственным таймаутом.
func (s *BearerSource) Refreshed(ctx context.Context) (string, error) {
	ch := s.sf.DoChan("refresh", func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}

		return res.Val.(string), nil
	}
}

func (s *BearerSource) refresh(ctx context.Context) (string, error) {
	pair, ok := s.store.Tokens()
	if !ok || pair.Refresh == "" {
		return "", ErrNoSession
	}

	rctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	fresh, err := s.refresher.Refresh(rctx, pair.Refresh)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) && ae.Kind == apierr.Unauthorized {
			// Сессия недействительна целиком: дальше только повторный вход.
			if cerr := s.store.Clear(); cerr != nil {
				s.log.Warn("creds_clear_failed", slog.String("err", cerr.Error()))
			}
			s.log.Info("session_invalidated")
		}

		return "", err
	}

	if err := s.store.Save(rctx, fresh); err != nil {
		return "", err
	}

	s.log.Info("token_refreshed", slog.String("access", redact.Token()))

	return fresh.Access, nil
}

// authTransport — внешнее звено цепочки: bearer-заголовок и retry после refresh.
//
// Машина состояний одного запроса:
//   - attach: токен из BearerSource (если есть);
//   - 401 → single-flight refresh → ровно один повтор с новым токеном;
//   - повторный 401 после retry отдаётся наверх как есть (Unauthorized);
//   - неудачный refresh: наверх уходит исходный 401-ответ.
type authTransport struct {
	next   http.RoundTripper
	source *BearerSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if token := t.source.Token(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.next.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// Тело исходного 401 буферизуем: его вернём, если refresh не удастся.
	buffered, _ := io.ReadAll(io.LimitReader(resp.Body, maxBufferedBody))
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(buffered))

	token, rerr := t.source.Refreshed(req.Context())
	if rerr != nil || token == "" {
		return resp, nil
	}

	retry, ok := cloneForRetry(req)
	if !ok {
		return resp, nil
	}
	retry.Header.Set("Authorization", "Bearer "+token)

	return t.next.RoundTrip(retry)
}

// cloneForRetry готовит повтор запроса: тело восстанавливается через GetBody.
// Запрос с невоспроизводимым телом повторить нельзя — отдаём исходный ответ.
func cloneForRetry(req *http.Request) (*http.Request, bool) {
	retry := req.Clone(req.Context())

	if req.Body == nil {
		return retry, true
	}

	if req.GetBody == nil {
		return nil, false
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	retry.Body = body

	return retry, true
}
