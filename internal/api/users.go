package api

import (
	"context"
	"net/http"
)

// cacheOnlyDirective — директива «только из кэша» для варианта MeCached.
// max-stale с максимальным int32 повторяет поведение мобильного клиента:
// годится сколь угодно устаревший закэшированный ответ.
const cacheOnlyDirective = "only-if-cached, max-stale=2147483647"

// UsersClient — авторизованные эндпойнты профиля.
// Работает поверх bearer-клиента из internal/transport.
type UsersClient struct {
	c *Client
}

func NewUsersClient(c *Client) *UsersClient {
	return &UsersClient{c: c}
}

// BaseURL возвращает нормализованный базовый URL API.
// Нужен репозиторию: относительные пути аватаров в ответах
// достраиваются относительно того же URL, по которому шёл запрос.
func (u *UsersClient) BaseURL() string { return u.c.BaseURL() }

// Me возвращает профиль текущего пользователя (сетевой запрос).
// no-cache заставляет кэш транспорта сходить в сеть, но ответ в кэш
// всё равно попадает — им пользуется MeCached.
func (u *UsersClient) Me(ctx context.Context) (UserDTO, error) {
	header := http.Header{}
	header.Set("Cache-Control", "no-cache")

	var out userInfoResponse
	if err := u.c.doJSON(ctx, http.MethodGet, "users/me/", header, nil, &out); err != nil {
		return UserDTO{}, err
	}

	return out.ProfileData, nil
}

// MeCached пытается получить профиль только из кэша транспорта.
// При промахе кэш отвечает ошибочным статусом — решение о фолбэке
// на полноценный Me принимает репозиторий.
func (u *UsersClient) MeCached(ctx context.Context) (UserDTO, error) {
	header := http.Header{}
	header.Set("Cache-Control", cacheOnlyDirective)

	var out userInfoResponse
	if err := u.c.doJSON(ctx, http.MethodGet, "users/me/", header, nil, &out); err != nil {
		return UserDTO{}, err
	}

	return out.ProfileData, nil
}

// UpdateMeInput — частичное обновление профиля: nil-поля не отправляются.
type UpdateMeInput struct {
	Name      *string
	Username  *string
	Birthday  *string
	City      *string
	Instagram *string
	VK        *string
	Status    *string
	Avatar    *EditAvatarDTO
}

// UpdateMe отправляет PUT с заданными полями.
// Тело ответа не разбирается: авторитетное состояние профиля
// перечитывается отдельным Me (см. репозиторий).
func (u *UsersClient) UpdateMe(ctx context.Context, in UpdateMeInput) error {
	return u.c.doJSON(ctx, http.MethodPut, "users/me/", nil, editUserRequest{
		Avatar:    in.Avatar,
		Birthday:  in.Birthday,
		City:      in.City,
		Instagram: in.Instagram,
		Name:      in.Name,
		Status:    in.Status,
		Username:  in.Username,
		VK:        in.VK,
	}, nil)
}
