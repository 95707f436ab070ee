package tablestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LeituraDeTabelaInexistente(t *testing.T) {
	store := NewMemoryStore()

	grid, err := store.ReadAll(context.Background(), "nada")
	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestMemoryStore_EscritaEmPosicao(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.WriteRows(ctx, "t", [][]any{{"Date", "Spend"}}, 1))
	require.NoError(t, store.WriteRows(ctx, "t", [][]any{{"03/10/2025", 10.0}}, 2))

	grid, err := store.ReadAll(ctx, "t")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "Date", grid[0][0])
	assert.Equal(t, 10.0, grid[1][1])
}

func TestMemoryStore_EscritaAlemDoFimPreencheComNulos(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.WriteRows(ctx, "t", [][]any{{"x"}}, 3))

	grid, err := store.ReadAll(ctx, "t")
	require.NoError(t, err)
	require.Len(t, grid, 3)
	assert.Nil(t, grid[0])
	assert.Equal(t, "x", grid[2][0])
}

func TestMemoryStore_SobrescritaDeLinha(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.WriteRows(ctx, "t", [][]any{{"a"}, {"b"}}, 1))
	require.NoError(t, store.WriteRows(ctx, "t", [][]any{{"novo"}}, 2))

	grid, err := store.ReadAll(ctx, "t")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "a", grid[0][0])
	assert.Equal(t, "novo", grid[1][0])
}

func TestMemoryStore_ReplaceAll(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.WriteRows(ctx, "t", [][]any{{"a"}, {"b"}, {"c"}}, 1))
	require.NoError(t, store.ReplaceAll(ctx, "t", [][]any{{"só esta"}}))

	grid, err := store.ReadAll(ctx, "t")
	require.NoError(t, err)
	require.Len(t, grid, 1)
	assert.Equal(t, "só esta", grid[0][0])
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.WriteRows(ctx, "t", [][]any{{"a"}}, 1))
	require.NoError(t, store.Clear(ctx, "t"))

	grid, err := store.ReadAll(ctx, "t")
	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestMemoryStore_LeituraDevolveCopia(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.WriteRows(ctx, "t", [][]any{{"original"}}, 1))

	grid, err := store.ReadAll(ctx, "t")
	require.NoError(t, err)
	grid[0][0] = "mutado"

	again, err := store.ReadAll(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0][0])
}
