package creds

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worldproger/mango-go/internal/models"
)

func TestMemoryStore_SaveTokensClear(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	_, ok := s.Tokens()
	require.False(t, ok)

	pair := models.TokenPair{Access: "a", Refresh: "r"}
	require.NoError(t, s.Save(context.Background(), pair))

	got, ok := s.Tokens()
	require.True(t, ok)
	require.Equal(t, pair, got)

	require.NoError(t, s.Clear())
	_, ok = s.Tokens()
	require.False(t, ok)
}

func TestMemoryStore_RejectsInvalidPair(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	require.ErrorIs(t, s.Save(context.Background(), models.TokenPair{Access: "a"}), ErrInvalidPair)
}

func TestMemoryStore_OnChange(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	var mu sync.Mutex
	fired := 0
	s.OnChange(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	require.NoError(t, s.Save(context.Background(), models.TokenPair{Access: "a", Refresh: "r"}))
	require.NoError(t, s.Clear())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, fired)
}
