// models содержит доменные сущности клиента Mango.
// Эти типы используются слоями хранилища, транспорта и репозиториев.
package models

// TokenPair — пара токенов авторизованной сессии.
//
// Описание:
//   - Access — короткоживущий токен для авторизации запросов к API;
//   - Refresh — долгоживущий секрет, предъявляемый только эндпойнту
//     обновления пары.
//
// Инварианты:
//   - после сохранения оба поля непустые;
//   - значения не попадают в логи целиком (pkg/redact).
type TokenPair struct {
	Access  string
	Refresh string
}

// Valid сообщает, что пара пригодна к сохранению.
func (p TokenPair) Valid() bool {
	return p.Access != "" && p.Refresh != ""
}
