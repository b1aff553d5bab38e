package api

// Wire-формат API Mango. Имена полей фиксированы контрактом сервера;
// неизвестные поля при декодировании игнорируются (encoding/json).

type sendPhoneRequest struct {
	Phone string `json:"phone"`
}

type verifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyCodeResponse — ответ проверки кода.
// Токены присутствуют только для существующего пользователя.
type VerifyCodeResponse struct {
	IsUserExists bool    `json:"is_user_exists"`
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	UserID       *int64  `json:"user_id"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Username string `json:"username"`
}

// RegisterResponse — регистрация всегда выдаёт сессию.
type RegisterResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// userInfoResponse — конверт ответа GET users/me/.
type userInfoResponse struct {
	ProfileData UserDTO `json:"profile_data"`
}

// AvatarsDTO — варианты аватара; пути могут быть относительными.
type AvatarsDTO struct {
	Avatar     string `json:"avatar"`
	BigAvatar  string `json:"bigAvatar"`
	MiniAvatar string `json:"miniAvatar"`
}

// UserDTO — профиль пользователя в wire-формате.
// Обязательные поля: id, name, phone, username, online, completed_task.
type UserDTO struct {
	ID            int64       `json:"id"`
	Avatar        *string     `json:"avatar"`
	Avatars       *AvatarsDTO `json:"avatars"`
	Birthday      *string     `json:"birthday"`
	City          *string     `json:"city"`
	CompletedTask int         `json:"completed_task"`
	Instagram     *string     `json:"instagram"`
	Last          *string     `json:"last"`
	Name          string      `json:"name"`
	Online        bool        `json:"online"`
	Phone         string      `json:"phone"`
	Status        *string     `json:"status"`
	Username      string      `json:"username"`
	VK            *string     `json:"vk"`
}

// EditAvatarDTO — загрузка аватара при частичном обновлении профиля.
type EditAvatarDTO struct {
	Base64   string `json:"base_64"`
	Filename string `json:"filename"`
}

// editUserRequest — частичное обновление: сериализуются только заданные поля.
type editUserRequest struct {
	Avatar    *EditAvatarDTO `json:"avatar,omitempty"`
	Birthday  *string        `json:"birthday,omitempty"`
	City      *string        `json:"city,omitempty"`
	Instagram *string        `json:"instagram,omitempty"`
	Name      *string        `json:"name,omitempty"`
	Status    *string        `json:"status,omitempty"`
	Username  *string        `json:"username,omitempty"`
	VK        *string        `json:"vk,omitempty"`
}
