package repository

import (
	"context"
	"log/slog"

	"github.com/worldproger/mango-go/internal/api"
	"github.com/worldproger/mango-go/internal/creds"
	"github.com/worldproger/mango-go/internal/models"
	"github.com/worldproger/mango-go/pkg/log"
	"github.com/worldproger/mango-go/pkg/result"
	"github.com/worldproger/mango-go/pkg/safecall"
)

// UserRepository — операции над профилем текущего пользователя и выход.
type UserRepository struct {
	users *api.UsersClient
	store creds.Store
	// baseURL нужен конвертеру: относительные пути аватаров достраиваются
	// до абсолютных относительно базового URL API.
	baseURL string
}

func NewUserRepository(users *api.UsersClient, store creds.Store, baseURL string) *UserRepository {
	return &UserRepository{users: users, store: store, baseURL: baseURL}
}

// User возвращает профиль текущего пользователя (сетевой запрос).
func (r *UserRepository) User(ctx context.Context) result.Result[models.User] {
	return safecall.CallMap(ctx,
		func(ctx context.Context) (api.UserDTO, error) {
			return r.users.Me(ctx)
		},
		func(dto api.UserDTO) (models.User, error) {
			return userFromDTO(dto, r.baseURL), nil
		},
	)
}

// UserCached пытается получить профиль только из кэша транспорта; при любом
// отказе (включая реальную потерю сети) выполняется полноценный User.
//
// Кэш здесь — чистая оптимизация и никогда не становится видимой пользователю
// ошибкой; промах кэша в офлайне при этом неотличим от обычного сетевого
// отказа — осознанный компромисс, унаследованный от мобильного клиента.
func (r *UserRepository) UserCached(ctx context.Context) result.Result[models.User] {
	res := safecall.CallMap(ctx,
		func(ctx context.Context) (api.UserDTO, error) {
			return r.users.MeCached(ctx)
		},
		func(dto api.UserDTO) (models.User, error) {
			return userFromDTO(dto, r.baseURL), nil
		},
	)

	if res.IsErr() {
		log.From(ctx).Debug("profile_cache_miss",
			slog.String("kind", res.ErrOrNil().Kind.String()),
		)

		return r.User(ctx)
	}

	return res
}

// UpdateUser выполняет частичное обновление профиля.
//
// Поведение:
//   - отправляются только заданные (ненулевые) поля;
//   - тело ответа PUT не разбирается; независимо от его исхода выполняется
//     повторный User — возвращается авторитетное состояние после обновления.
func (r *UserRepository) UpdateUser(ctx context.Context, in api.UpdateMeInput) result.Result[models.User] {
	lg := log.From(ctx).With("op", "repository/UserRepository.UpdateUser")

	if err := r.users.UpdateMe(ctx, in); err != nil {
		lg.Warn("profile_update_failed", slog.String("err", err.Error()))
	}

	return r.User(ctx)
}

// Logout завершает сессию локально: серверного logout-эндпойнта нет,
// достаточно очистить хранилище (кэш bearer-токена сбросится по сигналу).
func (r *UserRepository) Logout(ctx context.Context) error {
	const op = "repository/UserRepository.Logout"

	if err := r.store.Clear(); err != nil {
		return err
	}

	log.From(ctx).Info("logged_out", slog.String("op", op))

	return nil
}
