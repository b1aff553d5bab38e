// api — типизированные клиенты HTTP API Mango.
//
// Слой отвечает только за отображение запрос/ответ (DTO, wire-формат);
// классификация ошибок в Result происходит уровнем выше (pkg/safecall),
// здесь не-2xx статусы приводятся к apierr.Error через FromStatus.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/worldproger/mango-go/pkg/apierr"
)

// maxErrorBody — ограничение на чтение тела ошибки: защита от мусорных ответов.
const maxErrorBody = 1 << 20

// Client — общая основа типизированных клиентов: базовый URL и http.Client.
// Для авторизованных вызовов сюда передаётся клиент из internal/transport.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient создаёт клиент поверх httpClient с базовым URL baseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{http: httpClient, baseURL: baseURL}
}

// BaseURL возвращает нормализованный базовый URL API.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) url(path string) string {
	return c.baseURL + strings.TrimPrefix(path, "/")
}

// doJSON выполняет запрос с JSON-телом (body может быть nil) и декодирует
// успешный ответ в out (out может быть nil — тело игнорируется).
func (c *Client) doJSON(ctx context.Context, method, path string, header http.Header, body, out any) error {
	const op = "api/Client.doJSON"

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apierr.FromStatus(resp.StatusCode, raw)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}

	return nil
}
