// clients — композиция слоёв SDK в готовые к использованию репозитории.
//
// Замена DI-контейнера исходного приложения: явная сборка зависимостей
// (хранилище → базовый клиент → auth-клиент → bearer-транспорт →
// users-клиент → репозитории) в одной точке.
package clients

import (
	"log/slog"

	"github.com/worldproger/mango-go/internal/api"
	"github.com/worldproger/mango-go/internal/config"
	"github.com/worldproger/mango-go/internal/creds"
	"github.com/worldproger/mango-go/internal/repository"
	"github.com/worldproger/mango-go/internal/transport"
)

const userAgent = "mango-go"

// Clients агрегирует репозитории SDK и их общее хранилище сессии.
type Clients struct {
	Auth  *repository.AuthRepository
	Users *repository.UserRepository
	Store creds.Store
}

// New собирает SDK поверх конфигурации и хранилища токенов.
//
// Два HTTP-клиента по контракту:
//   - базовый (без bearer) — неавторизованные эндпойнты аутентификации,
//     включая refresh: обновление пары не должно ходить через bearer-цепочку;
//   - авторизованный — всё остальное; его bearer-провайдер подписан на
//     изменения store и делит с ним single-flight refresh.
func New(cfg *config.Config, store creds.Store, log *slog.Logger) *Clients {
	baseHTTP := transport.NewBase(cfg.API.Timeout, userAgent, log)
	authAPI := api.NewAuthClient(api.NewClient(baseHTTP, cfg.API.BaseURL))

	authedHTTP, _ := transport.New(transport.Options{
		Store:     store,
		Refresher: authAPI,
		Timeout:   cfg.API.Timeout,
		UserAgent: userAgent,
		Logger:    log,
	})
	usersAPI := api.NewUsersClient(api.NewClient(authedHTTP, cfg.API.BaseURL))

	return &Clients{
		Auth:  repository.NewAuthRepository(authAPI, usersAPI, store),
		Users: repository.NewUserRepository(usersAPI, store, usersAPI.BaseURL()),
		Store: store,
	}
}
