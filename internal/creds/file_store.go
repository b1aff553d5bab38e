package creds

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/worldproger/mango-go/internal/models"
)

const (
	// keyInfo — контекст вывода ключа; фиксирует пространство имён хранилища.
	keyInfo = "mango/credentials/v1"

	// pollInterval/pollBudget — параметры цикла подтверждения записи.
	pollInterval = 100 * time.Millisecond
	pollBudget   = 3 * time.Second
)

// ErrEmptySecret — хранилищу не передан мастер-секрет.
var ErrEmptySecret = errors.New("empty credentials secret")

// ErrInvalidPair — попытка сохранить пару с пустым access или refresh.
var ErrInvalidPair = errors.New("invalid token pair")

// record — формат хранимой записи до шифрования.
// Ключи фиксированы и совместимы между версиями хранилища.
type record struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// FileStore — одна зашифрованная запись на диске.
//
// Шифрование: XChaCha20-Poly1305, ключ выводится из мастер-секрета через
// HKDF-SHA256 с фиксированным info. Файл: nonce || ciphertext, права 0600.
// Запись атомарна с точки зрения читателя (tmp + rename).
type FileStore struct {
	path string
	key  []byte

	mu        sync.Mutex
	listeners []func()
}

// NewFileStore создаёт хранилище по пути path с мастер-секретом secret.
// Каталог path создаётся при необходимости.
func NewFileStore(path string, secret []byte) (*FileStore, error) {
	const op = "creds/NewFileStore"

	if len(secret) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%s: mkdir: %w", op, err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, secret, nil, []byte(keyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("%s: derive key: %w", op, err)
	}

	return &FileStore{path: path, key: key}, nil
}

// Tokens читает и расшифровывает сохранённую пару.
// Отсутствующий или нечитаемый файл трактуется как отсутствие пары.
func (s *FileStore) Tokens() (models.TokenPair, bool) {
	rec, ok := s.read()
	if !ok {
		return models.TokenPair{}, false
	}

	return models.TokenPair{Access: rec.Access, Refresh: rec.Refresh}, true
}

// Save шифрует и атомарно записывает пару, после чего опрашивает хранилище
// до тех пор, пока повторное чтение не вернёт новый access-токен.
// Только после подтверждения уведомляются подписчики.
func (s *FileStore) Save(ctx context.Context, pair models.TokenPair) error {
	const op = "creds/FileStore.Save"

	if !pair.Valid() {
		return fmt.Errorf("%s: %w", op, ErrInvalidPair)
	}

	s.mu.Lock()
	err := s.write(record{Access: pair.Access, Refresh: pair.Refresh})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	deadline := time.Now().Add(pollBudget)
	for {
		if rec, ok := s.read(); ok && rec.Access == pair.Access {
			break
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%s: write not visible after %s", op, pollBudget)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(pollInterval):
		}
	}

	s.notify()

	return nil
}

// Clear удаляет запись и уведомляет подписчиков.
func (s *FileStore) Clear() error {
	const op = "creds/FileStore.Clear"

	s.mu.Lock()
	err := os.Remove(s.path)
	s.mu.Unlock()

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notify()

	return nil
}

// OnChange регистрирует подписчика; вызывается после Save/Clear.
func (s *FileStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *FileStore) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (s *FileStore) read() (record, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return record{}, false
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return record{}, false
	}

	if len(raw) < aead.NonceSize() {
		return record{}, false
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return record{}, false
	}

	var rec record
	if err := json.Unmarshal(plain, &rec); err != nil {
		return record{}, false
	}

	return rec, true
}

func (s *FileStore) write(rec record) error {
	plain, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Write(nonce)
	buf.Write(aead.Seal(nil, nonce, plain, nil))

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
