// repository — сессионные use-case'ы клиента: композиция API-клиентов,
// хранилища токенов и safe-call-обёртки.
//
// Контракт слоя: каждая операция завершается result.Result — классифицированные
// ошибки транспорта доходят до вызывающего без изменений, сырые ошибки наружу
// не выходят. Документированные исключения: фолбэк UserCached и прогрев кэша
// в VerifyCode глотают собственные отказы.
package repository

import (
	"context"
	"log/slog"

	"github.com/worldproger/mango-go/internal/api"
	"github.com/worldproger/mango-go/internal/creds"
	"github.com/worldproger/mango-go/internal/models"
	"github.com/worldproger/mango-go/pkg/apierr"
	"github.com/worldproger/mango-go/pkg/log"
	"github.com/worldproger/mango-go/pkg/redact"
	"github.com/worldproger/mango-go/pkg/result"
	"github.com/worldproger/mango-go/pkg/safecall"
)

// AuthRepository — операции входа: отправка кода, проверка, регистрация.
type AuthRepository struct {
	auth  *api.AuthClient
	users *api.UsersClient
	store creds.Store
}

func NewAuthRepository(auth *api.AuthClient, users *api.UsersClient, store creds.Store) *AuthRepository {
	return &AuthRepository{auth: auth, users: users, store: store}
}

// HasSession сообщает, есть ли в хранилище сохранённая сессия.
// Используется для выбора стартового экрана/команды без сетевого вызова.
func (r *AuthRepository) HasSession() bool {
	pair, ok := r.store.Tokens()
	return ok && pair.Valid()
}

// SendCode запрашивает код подтверждения на номер phone.
func (r *AuthRepository) SendCode(ctx context.Context, phone string) result.Result[result.Unit] {
	lg := log.From(ctx).With("op", "repository/AuthRepository.SendCode", "phone", redact.Phone(phone))

	return safecall.Call(ctx, func(ctx context.Context) (result.Unit, error) {
		return result.Unit{}, r.auth.SendPhone(ctx, phone)
	}).OnError(func(err *apierr.Error) {
		lg.Warn("send_code_failed", slog.String("kind", err.Kind.String()))
	})
}

// VerifyCode проверяет код подтверждения и при наличии токенов в ответе
// устанавливает сессию.
//
// Поведение:
//   - пара из ответа сохраняется через Save (гарантия видимости) до возврата;
//   - после установки сессии выполняется один прогревочный запрос профиля —
//     его отказ не влияет на исход операции;
//   - возвращает признак существующего аккаунта: он определяет, нужен ли
//     вызывающему экран регистрации.
func (r *AuthRepository) VerifyCode(ctx context.Context, phone, code string) result.Result[bool] {
	lg := log.From(ctx).With("op", "repository/AuthRepository.VerifyCode", "phone", redact.Phone(phone))

	res := safecall.Call(ctx, func(ctx context.Context) (api.VerifyCodeResponse, error) {
		return r.auth.VerifyCode(ctx, phone, code)
	})

	out, ok := res.Value()
	if !ok {
		lg.Warn("verify_code_failed", slog.String("kind", res.ErrOrNil().Kind.String()))
		return result.Err[bool](res.ErrOrNil())
	}

	if out.AccessToken != nil && out.RefreshToken != nil {
		pair := models.TokenPair{Access: *out.AccessToken, Refresh: *out.RefreshToken}
		if err := r.store.Save(ctx, pair); err != nil {
			lg.Error("tokens_save_failed", slog.String("err", err.Error()))
		} else {
			lg.Info("session_established")

			// Прогрев кэша профиля: best-effort, исход не проверяется.
			if _, err := r.users.Me(ctx); err != nil {
				lg.Debug("profile_warmup_failed", slog.String("err", err.Error()))
			}
		}
	}

	return result.Ok(out.IsUserExists)
}

// Register регистрирует аккаунт; успешная регистрация всегда выдаёт сессию,
// поэтому пара сохраняется безусловно.
func (r *AuthRepository) Register(ctx context.Context, phone, name, username string) result.Result[result.Unit] {
	lg := log.From(ctx).With("op", "repository/AuthRepository.Register", "phone", redact.Phone(phone))

	res := safecall.Call(ctx, func(ctx context.Context) (api.RegisterResponse, error) {
		return r.auth.Register(ctx, phone, name, username)
	})

	out, ok := res.Value()
	if !ok {
		lg.Warn("register_failed", slog.String("kind", res.ErrOrNil().Kind.String()))
		return result.Err[result.Unit](res.ErrOrNil())
	}

	pair := models.TokenPair{Access: out.AccessToken, Refresh: out.RefreshToken}
	if err := r.store.Save(ctx, pair); err != nil {
		lg.Error("tokens_save_failed", slog.String("err", err.Error()))
	} else {
		lg.Info("session_established")
	}

	return result.Ok(result.Unit{})
}
