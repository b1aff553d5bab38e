package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worldproger/mango-go/internal/api"
)

func strp(s string) *string { return &s }

func TestUserFromDTO_FullProfile(t *testing.T) {
	t.Parallel()

	dto := api.UserDTO{
		ID:            42,
		Name:          "Иван",
		Username:      "ivan",
		Phone:         "+79991112233",
		Birthday:      strp("1990-01-01"),
		City:          strp("Казань"),
		Instagram:     strp("@ivan"),
		VK:            strp("ivan_vk"),
		Status:        strp("на связи"),
		Last:          strp("2026-08-30T10:00:00Z"),
		Online:        true,
		CompletedTask: 5,
		Avatars: &api.AvatarsDTO{
			Avatar:     "files/a.png",
			BigAvatar:  "files/big.png",
			MiniAvatar: "files/mini.png",
		},
	}

	user := userFromDTO(dto, "https://api.example.com/api/v1/")

	require.EqualValues(t, 42, user.ID)
	require.Equal(t, "Иван", user.Name)
	require.Equal(t, "ivan", user.Username)
	require.Equal(t, "Казань", user.City)
	require.Equal(t, "на связи", user.Status)
	require.Equal(t, "2026-08-30T10:00:00Z", user.LastSeen)
	require.True(t, user.Online)
	require.Equal(t, 5, user.CompletedTask)

	require.NotNil(t, user.Avatars)
	require.Equal(t, "https://api.example.com/api/v1/files/a.png", user.Avatars.Avatar)
	require.Equal(t, "https://api.example.com/api/v1/files/big.png", user.Avatars.BigAvatar)
	require.Equal(t, "https://api.example.com/api/v1/files/mini.png", user.Avatars.MiniAvatar)
}

func TestUserFromDTO_NilOptionalsBecomeEmpty(t *testing.T) {
	t.Parallel()

	user := userFromDTO(api.UserDTO{ID: 1, Name: "n", Username: "u", Phone: "p"}, "https://x/")

	require.Empty(t, user.Birthday)
	require.Empty(t, user.City)
	require.Empty(t, user.Status)
	require.Nil(t, user.Avatars)
}

func TestAttachBaseURL(t *testing.T) {
	t.Parallel()

	// Абсолютные URL не переписываются.
	require.Equal(t, "https://cdn.example.com/a.png",
		attachBaseURL("https://cdn.example.com/a.png", "https://api.example.com/"))

	// Относительный путь достраивается ровно одним разделителем.
	require.Equal(t, "https://api.example.com/files/a.png",
		attachBaseURL("files/a.png", "https://api.example.com/"))
	require.Equal(t, "https://api.example.com/files/a.png",
		attachBaseURL("/files/a.png", "https://api.example.com"))

	require.Empty(t, attachBaseURL("", "https://api.example.com/"))
}
