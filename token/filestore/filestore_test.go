package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jrsteele09/go-backoffice-session/token"
	"github.com/jrsteele09/go-backoffice-session/token/filestore"
	"github.com/stretchr/testify/require"
)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", filestore.FileName)

	s, err := filestore.New(path, "token")
	require.NoError(t, err)

	_, err = s.Get(ctx)
	require.ErrorIs(t, err, token.ErrNoToken)

	require.NoError(t, s.Set(ctx, "first"))
	require.NoError(t, s.Set(ctx, "second"))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", got)

	require.NoError(t, s.Delete(ctx))
	_, err = s.Get(ctx)
	require.ErrorIs(t, err, token.ErrNoToken)

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "empty store should remove its file")

	require.NoError(t, s.Delete(ctx), "deleting an empty slot is not an error")
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), filestore.FileName)

	s, err := filestore.New(path, "token")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "persisted"))

	reopened, err := filestore.New(path, "token")
	require.NoError(t, err)
	got, err := reopened.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "persisted", got)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), filestore.FileName)

	a, err := filestore.New(path, "a")
	require.NoError(t, err)
	b, err := filestore.New(path, "b")
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, "token-a"))
	require.NoError(t, b.Set(ctx, "token-b"))
	require.NoError(t, a.Delete(ctx))

	got, err := b.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "token-b", got)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), filestore.FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := filestore.New(path, "token")
	require.NoError(t, err)

	_, err = s.Get(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, token.ErrNoToken)
}

func TestNew_Validation(t *testing.T) {
	_, err := filestore.New("", "token")
	require.Error(t, err)
	_, err = filestore.New(filepath.Join(t.TempDir(), "x.json"), "")
	require.Error(t, err)
}
