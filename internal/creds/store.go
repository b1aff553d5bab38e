// creds — долговременное хранилище пары токенов сессии.
//
// Контракт Store:
//   - Tokens — синхронное быстрое чтение; отсутствие пары не является ошибкой;
//   - Save — возвращает управление только после того, как повторное чтение
//     видит только что записанный access-токен (гарантия видимости для
//     транспорта, который может запросить токены сразу после записи);
//   - Save/Clear после завершения уведомляют подписчиков OnChange — транспорт
//     сбрасывает закэшированный bearer-токен именно по этому сигналу;
//   - вся мутация состояния идёт через Save/Clear, прямого доступа к полям нет.
package creds

import (
	"context"

	"github.com/worldproger/mango-go/internal/models"
)

// Store — абстракция хранилища учётных данных.
// Боевое хранилище шифрует пару на диске (FileStore); тестовое держит
// её в памяти (MemoryStore).
type Store interface {
	// Tokens возвращает сохранённую пару и признак её наличия.
	Tokens() (models.TokenPair, bool)
	// Save атомарно сохраняет пару и блокируется до подтверждения видимости.
	Save(ctx context.Context, pair models.TokenPair) error
	// Clear удаляет пару; отсутствие записи не считается ошибкой.
	Clear() error
	// OnChange регистрирует подписчика на изменения (Save/Clear).
	OnChange(fn func())
}
