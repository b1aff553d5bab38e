// transport собирает авторизованный HTTP-клиент Mango API.
//
// Цепочка RoundTripper (внешний → внутренний):
//
//	bearer (attach + refresh-on-401) → кэш ответов (RFC 7234, только GET)
//	→ заголовки по умолчанию + лог → net/http.Transport.
//
// Таймауты фиксированы контрактом (≈15s на запрос/коннект) и задаются
// конфигурацией, а не вызывающим кодом.
package transport

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/worldproger/mango-go/internal/creds"
)

// Options — зависимости сборки клиента.
type Options struct {
	// Store — хранилище пары токенов (процессный синглтон).
	Store creds.Store
	// Refresher — клиент refresh-эндпойнта (api.AuthClient поверх базового клиента).
	Refresher Refresher
	// Timeout — общий таймаут запроса; 0 отключает (тесты).
	Timeout time.Duration
	// UserAgent — значение User-Agent исходящих запросов.
	UserAgent string
	// Logger — базовый логгер транспорта; nil — slog.Default().
	Logger *slog.Logger
}

// New собирает авторизованный *http.Client и его bearer-провайдер.
// Провайдер возвращается отдельно: тесты и композиция используют
// Invalidate/Refreshed напрямую.
func New(opts Options) (*http.Client, *BearerSource) {
	source := NewBearerSource(opts.Store, opts.Refresher, opts.Timeout, opts.Logger)

	cache := httpcache.NewMemoryCacheTransport()
	cache.Transport = &headersTransport{
		next:      baseTransport(opts.Timeout),
		userAgent: opts.UserAgent,
		base:      opts.Logger,
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &authTransport{
			next:   cache,
			source: source,
		},
	}

	return client, source
}

// NewBase собирает базовый клиент без bearer-провайдера и кэша —
// для неавторизованных эндпойнтов аутентификации.
func NewBase(timeout time.Duration, userAgent string, lg *slog.Logger) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &headersTransport{
			next:      baseTransport(timeout),
			userAgent: userAgent,
			base:      lg,
		},
	}
}

func baseTransport(timeout time.Duration) *http.Transport {
	dialer := &net.Dialer{}
	if timeout > 0 {
		dialer.Timeout = timeout
	}

	return &http.Transport{
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	}
}
