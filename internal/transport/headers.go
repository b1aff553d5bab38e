package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/worldproger/mango-go/pkg/log"
)

// headersTransport — нижнее звено цепочки: заголовки по умолчанию и лог вызова.
//
// Поведение:
//   - Content-Type/Accept: application/json (если не заданы вызовом);
//   - User-Agent из конфигурации клиента;
//   - X-Request-Id: берётся из запроса или генерируется (uuid);
//   - одна финальная запись Info на запрос: method, path, status, dur.
//
// Безопасность: не логирует payload и заголовок Authorization.
type headersTransport struct {
	next      http.RoundTripper
	userAgent string
	base      *slog.Logger
}

func (t *headersTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	out := req.Clone(req.Context())
	if out.Header.Get("Content-Type") == "" {
		out.Header.Set("Content-Type", "application/json")
	}
	if out.Header.Get("Accept") == "" {
		out.Header.Set("Accept", "application/json")
	}
	if t.userAgent != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.userAgent)
	}

	rid := out.Header.Get("X-Request-Id")
	if rid == "" {
		rid = uuid.NewString()
		out.Header.Set("X-Request-Id", rid)
	}

	lg := t.base
	if lg == nil {
		lg = log.From(req.Context())
	}
	lg = lg.With(
		slog.String("request_id", rid),
		slog.String("method", out.Method),
		slog.String("path", out.URL.Path),
	)

	resp, err := t.next.RoundTrip(out)

	if err != nil {
		lg.Info("http",
			slog.String("status", "transport_error"),
			slog.Duration("dur", time.Since(start)),
		)
		return nil, err
	}

	lg.Info("http",
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)

	return resp, nil
}
