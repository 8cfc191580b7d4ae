package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/ende/internal/storage/db"
)

func TestDB(t *testing.T) {
	t.Parallel()

	store, err := NewDB(t.Context(), filepath.Join(t.TempDir(), "db.sqlite"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	t.Run("UpsertFlow", func(t *testing.T) {
		t.Parallel()

		created, err := store.UpsertFlow(t.Context(), SavedFlow{
			Name:  "upsert-flow",
			Steps: []string{"uri", "encode/base64"},
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, []string{"encode/uri", "encode/base64"}, created.Steps)
		assert.False(t, created.CreateTime.IsZero())
		assert.True(t, created.CreateTime.Equal(created.UpdateTime))

		updated, err := store.UpsertFlow(t.Context(), SavedFlow{
			Name:  "upsert-flow",
			Steps: []string{"decode/base64-decode"},
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, created.CreateTime.Equal(updated.CreateTime))
		assert.False(t, updated.UpdateTime.Before(created.UpdateTime))
		assert.Equal(t, []string{"decode/base64-decode"}, updated.Steps)

		actual, err := store.GetFlow(t.Context(), "upsert-flow")
		require.NoError(t, err)
		assert.Equal(t, updated.ID, actual.ID)
		assert.Equal(t, updated.Steps, actual.Steps)
		assert.WithinDuration(t, updated.UpdateTime, actual.UpdateTime, time.Millisecond)
	})

	t.Run("InvalidName", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"", "ab", "invalid/name", "has space", string(make([]byte, 65))} {
			_, err := store.UpsertFlow(t.Context(), SavedFlow{
				Name:  name,
				Steps: []string{"base64"},
			})
			require.ErrorIs(t, err, ErrInvalidName, name)
		}
	})

	t.Run("InvalidFlow", func(t *testing.T) {
		t.Parallel()

		_, err := store.UpsertFlow(t.Context(), SavedFlow{Name: "no-steps"})
		require.ErrorIs(t, err, ErrInvalidFlow)

		_, err = store.UpsertFlow(t.Context(), SavedFlow{
			Name:  "bad-step",
			Steps: []string{"base64", "rot13"},
		})
		require.ErrorIs(t, err, ErrInvalidFlow)
		require.ErrorContains(t, err, "rot13")

		_, err = store.GetFlow(t.Context(), "bad-step")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GetFlow", func(t *testing.T) {
		t.Parallel()

		_, err := store.GetFlow(t.Context(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteFlow", func(t *testing.T) {
		t.Parallel()

		_, err := store.UpsertFlow(t.Context(), SavedFlow{
			Name:  "delete-flow",
			Steps: []string{"hex"},
		})
		require.NoError(t, err)

		require.NoError(t, store.DeleteFlow(t.Context(), "delete-flow"))
		_, err = store.GetFlow(t.Context(), "delete-flow")
		require.ErrorIs(t, err, ErrNotFound)

		err = store.DeleteFlow(t.Context(), "delete-flow")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDB_ListFlows(t *testing.T) {
	t.Parallel()

	store, err := NewDB(t.Context(), db.MemoryPath, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	flows, err := store.ListFlows(t.Context(), "", 100)
	require.NoError(t, err)
	assert.Empty(t, flows)

	for _, name := range []string{"ccc", "aaa", "bbb"} {
		_, err = store.UpsertFlow(t.Context(), SavedFlow{
			Name:  name,
			Steps: []string{"json", "json-parse"},
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		afterName string
		limit     int32
		want      []string
	}{
		{
			name:  "all",
			limit: 100,
			want:  []string{"aaa", "bbb", "ccc"},
		},
		{
			name:  "first page",
			limit: 2,
			want:  []string{"aaa", "bbb"},
		},
		{
			name:      "second page",
			afterName: "bbb",
			limit:     2,
			want:      []string{"ccc"},
		},
		{
			name:      "past the end",
			afterName: "ccc",
			limit:     2,
			want:      []string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			flows, err := store.ListFlows(t.Context(), test.afterName, test.limit)
			require.NoError(t, err)
			names := make([]string, 0, len(flows))
			for _, flow := range flows {
				names = append(names, flow.Name)
				assert.Equal(t, []string{"encode/json", "decode/json-parse"}, flow.Steps)
			}
			assert.Equal(t, test.want, names)
		})
	}
}

func TestNewDB_OpenFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "directory",
			path: func(t *testing.T) string {
				t.Helper()
				return t.TempDir()
			},
		},
		{
			name: "not a database",
			path: func(t *testing.T) string {
				t.Helper()
				path := filepath.Join(t.TempDir(), "db.sqlite")
				require.NoError(t, os.WriteFile(path, []byte("definitely not a sqlite database file"), 0o600))
				return path
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			path := test.path(t)
			store, err := NewDB(t.Context(), path, slog.Default())
			require.Error(t, err)
			assert.Nil(t, store)
		})
	}

	t.Run("path reusable after failure", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "db.sqlite")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a sqlite database file"), 0o600))
		_, err := NewDB(t.Context(), path, slog.Default())
		require.Error(t, err)

		require.NoError(t, os.Remove(path))
		store, err := NewDB(t.Context(), path, slog.Default())
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		_, err = store.UpsertFlow(t.Context(), SavedFlow{Name: "after-failure", Steps: []string{"uri"}})
		require.NoError(t, err)
		flow, err := store.GetFlow(t.Context(), "after-failure")
		require.NoError(t, err)
		assert.Equal(t, []string{"encode/uri"}, flow.Steps)
	})
}

func TestValidName(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidName("my_flow-1"))
	assert.False(t, ValidName("my flow"))
	assert.False(t, ValidName("no"))
}
