package models

// Avatars — набор вариантов аватара пользователя.
// Все ссылки абсолютные: относительные пути API достраиваются до полного URL
// при конвертации из DTO на стороне репозитория.
type Avatars struct {
	Avatar     string
	BigAvatar  string
	MiniAvatar string
}

// User — доменная модель профиля пользователя.
// Источник истинности — сервер; мутации только через успешный update,
// кэширования сверх кэша транспорта нет.
type User struct {
	ID            int64
	Name          string
	Username      string
	Phone         string
	Birthday      string
	City          string
	Instagram     string
	VK            string
	Status        string
	LastSeen      string
	Avatars       *Avatars
	Online        bool
	CompletedTask int
}
