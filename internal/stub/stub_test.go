package stub

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/worldproger/mango-go/internal/api"
	"github.com/worldproger/mango-go/internal/clients"
	"github.com/worldproger/mango-go/internal/config"
	"github.com/worldproger/mango-go/internal/creds"
	"github.com/worldproger/mango-go/internal/models"
	"github.com/worldproger/mango-go/pkg/apierr"
)

// Сквозной сценарий: SDK против заглушки, как против настоящего API.

func newStubSDK(t *testing.T) *clients.Clients {
	t.Helper()

	lg := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, handler := New(lg)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Env: "local",
		API: config.APIConfig{
			BaseURL: srv.URL + "/api/v1/",
			Timeout: 5 * time.Second,
		},
	}

	return clients.New(cfg, creds.NewMemoryStore(), lg)
}

func TestFullFlow_RegisterAndUseProfile(t *testing.T) {
	t.Parallel()

	sdk := newStubSDK(t)
	ctx := context.Background()

	const phone = "+79991112233"

	// Код без предварительной отправки не принимается.
	res := sdk.Auth.VerifyCode(ctx, phone, testCode)
	require.True(t, res.IsErr())

	require.True(t, sdk.Auth.SendCode(ctx, phone).IsOk())

	// Неверный код.
	res = sdk.Auth.VerifyCode(ctx, phone, "000000")
	require.True(t, res.IsErr())
	require.True(t, apierr.Is(res.ErrOrNil(), apierr.NotFound))

	// Код одноразовый, поэтому запрашиваем заново.
	require.True(t, sdk.Auth.SendCode(ctx, phone).IsOk())

	exists, ok := sdk.Auth.VerifyCode(ctx, phone, testCode).Value()
	require.True(t, ok)
	require.False(t, exists, "номер ещё не зарегистрирован")
	require.False(t, sdk.Auth.HasSession())

	// Регистрация выдаёт сессию.
	require.True(t, sdk.Auth.Register(ctx, phone, "Иван", "ivan").IsOk())
	require.True(t, sdk.Auth.HasSession())

	user, ok := sdk.Users.User(ctx).Value()
	require.True(t, ok)
	require.Equal(t, "Иван", user.Name)
	require.Equal(t, "ivan", user.Username)
	require.Equal(t, phone, user.Phone)

	// Частичное обновление и авторитетное перечитывание.
	city := "Казань"
	user, ok = sdk.Users.UpdateUser(ctx, api.UpdateMeInput{City: &city}).Value()
	require.True(t, ok)
	require.Equal(t, "Казань", user.City)
	require.Equal(t, "Иван", user.Name, "незаданные поля не меняются")

	// Повторный вход на том же номере: пользователь уже существует.
	require.True(t, sdk.Auth.SendCode(ctx, phone).IsOk())
	exists, ok = sdk.Auth.VerifyCode(ctx, phone, testCode).Value()
	require.True(t, ok)
	require.True(t, exists)

	// Выход: сессии нет, профиль недоступен.
	require.NoError(t, sdk.Users.Logout(ctx))
	require.False(t, sdk.Auth.HasSession())

	res2 := sdk.Users.User(ctx)
	require.True(t, res2.IsErr())
	require.True(t, apierr.Is(res2.ErrOrNil(), apierr.Unauthorized))
}

func TestFullFlow_ExpiredAccessTriggersRefresh(t *testing.T) {
	t.Parallel()

	sdk := newStubSDK(t)
	ctx := context.Background()

	const phone = "+79994445566"

	require.True(t, sdk.Auth.SendCode(ctx, phone).IsOk())
	_, ok := sdk.Auth.VerifyCode(ctx, phone, testCode).Value()
	require.True(t, ok)
	require.True(t, sdk.Auth.Register(ctx, phone, "Пётр", "petr").IsOk())

	issued, ok := sdk.Store.Tokens()
	require.True(t, ok)

	// Портим access-токен, refresh остаётся действительным: первый же
	// запрос получает 401, обновляет пару и повторяется.
	require.NoError(t, sdk.Store.Save(ctx, models.TokenPair{
		Access:  "expired-access",
		Refresh: issued.Refresh,
	}))

	user, ok := sdk.Users.User(ctx).Value()
	require.True(t, ok)
	require.Equal(t, "petr", user.Username)

	// Пара ротирована: оба токена новые.
	rotated, ok := sdk.Store.Tokens()
	require.True(t, ok)
	require.NotEqual(t, "expired-access", rotated.Access)
	require.NotEqual(t, issued.Refresh, rotated.Refresh)
}

func TestFullFlow_RevokedRefreshClearsSession(t *testing.T) {
	t.Parallel()

	sdk := newStubSDK(t)
	ctx := context.Background()

	const phone = "+79997778899"

	require.True(t, sdk.Auth.SendCode(ctx, phone).IsOk())
	_, ok := sdk.Auth.VerifyCode(ctx, phone, testCode).Value()
	require.True(t, ok)
	require.True(t, sdk.Auth.Register(ctx, phone, "Анна", "anna").IsOk())

	// Оба токена недействительны: refresh получает 401,
	// сессия признаётся мёртвой и стирается из хранилища.
	require.NoError(t, sdk.Store.Save(ctx, models.TokenPair{
		Access:  "expired-access",
		Refresh: "revoked-refresh",
	}))

	res := sdk.Users.User(ctx)
	require.True(t, res.IsErr())
	require.True(t, apierr.Is(res.ErrOrNil(), apierr.Unauthorized))
	require.False(t, sdk.Auth.HasSession())
}
