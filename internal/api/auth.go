package api

import (
	"context"
	"net/http"

	"github.com/worldproger/mango-go/internal/models"
)

// AuthClient — неавторизованные эндпойнты аутентификации.
// Работает поверх базового (без bearer) HTTP-клиента.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// SendPhone запрашивает отправку кода подтверждения на номер phone.
func (a *AuthClient) SendPhone(ctx context.Context, phone string) error {
	return a.c.doJSON(ctx, http.MethodPost, "users/send-auth-code/", nil, sendPhoneRequest{Phone: phone}, nil)
}

// VerifyCode проверяет код подтверждения.
func (a *AuthClient) VerifyCode(ctx context.Context, phone, code string) (VerifyCodeResponse, error) {
	var out VerifyCodeResponse
	err := a.c.doJSON(ctx, http.MethodPost, "users/check-auth-code/", nil, verifyCodeRequest{Phone: phone, Code: code}, &out)

	return out, err
}

// Register регистрирует нового пользователя.
func (a *AuthClient) Register(ctx context.Context, phone, name, username string) (RegisterResponse, error) {
	var out RegisterResponse
	err := a.c.doJSON(ctx, http.MethodPost, "users/register/", nil, registerRequest{
		Name:     name,
		Phone:    phone,
		Username: username,
	}, &out)

	return out, err
}

// Refresh обменивает refresh-токен на новую пару.
// Метод реализует transport.Refresher — им пользуется bearer-провайдер
// авторизованного транспорта при обработке 401.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var out refreshTokenResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "users/refresh-token/", nil, refreshTokenRequest{RefreshToken: refreshToken}, &out); err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: out.AccessToken, Refresh: out.RefreshToken}, nil
}
