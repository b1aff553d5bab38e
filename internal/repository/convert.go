package repository

import (
	"strings"

	"github.com/worldproger/mango-go/internal/api"
	"github.com/worldproger/mango-go/internal/models"
)

// userFromDTO конвертирует wire-профиль в доменную модель.
// Относительные пути аватаров достраиваются до абсолютных URL
// относительно baseURL API.
func userFromDTO(dto api.UserDTO, baseURL string) models.User {
	var avatars *models.Avatars
	if dto.Avatars != nil {
		avatars = &models.Avatars{
			Avatar:     attachBaseURL(dto.Avatars.Avatar, baseURL),
			BigAvatar:  attachBaseURL(dto.Avatars.BigAvatar, baseURL),
			MiniAvatar: attachBaseURL(dto.Avatars.MiniAvatar, baseURL),
		}
	}

	return models.User{
		ID:            dto.ID,
		Name:          dto.Name,
		Username:      dto.Username,
		Phone:         dto.Phone,
		Birthday:      deref(dto.Birthday),
		City:          deref(dto.City),
		Instagram:     deref(dto.Instagram),
		VK:            deref(dto.VK),
		Status:        deref(dto.Status),
		LastSeen:      deref(dto.Last),
		Avatars:       avatars,
		Online:        dto.Online,
		CompletedTask: dto.CompletedTask,
	}
}

func attachBaseURL(path, baseURL string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}

	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
