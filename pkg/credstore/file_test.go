package credstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestFileBackendSealed(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	sealer, err := cryptox.NewSealer("correct horse")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "credentials.sealed")
	f := NewFile(path, "https://crm.example.com", sealer)

	require.NoError(t, f.Set(ctx, TokenKey, testToken, time.Hour))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), testToken, "token must not be stored in the clear")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	v, ok, err := f.Get(ctx, TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testToken, v)

	// A different passphrase cannot read the file and sees it as empty.
	other, err := cryptox.NewSealer("wrong horse")
	require.NoError(t, err)
	_, ok, err = NewFile(path, "https://crm.example.com", other).Get(ctx, TokenKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileBackendCorruptReadsEmpty(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	f := NewFile(path, "scope", nil)

	_, ok, err := f.Get(ctx, TokenKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, f.Set(ctx, TokenKey, "fresh", time.Hour))
	v, ok, err := f.Get(ctx, TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "fresh", v)
}

func TestFileBackendKeysDeleteAndPurge(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	now := time.Now()
	f := NewFile(filepath.Join(t.TempDir(), "credentials.json"), "scope", nil)
	f.now = func() time.Time { return now }

	require.NoError(t, f.Set(ctx, TokenKey, "t", time.Minute))
	require.NoError(t, f.Set(ctx, UserKey, "u", time.Hour))
	require.NoError(t, f.Set(ctx, "prefs", "p", time.Hour))

	keys, err := f.Keys(ctx, KeyPrefix)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{TokenKey, UserKey}, keys)

	require.NoError(t, f.Delete(ctx, UserKey))
	require.NoError(t, f.Delete(ctx, "missing"))

	now = now.Add(time.Hour - time.Second)
	n, err := f.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	keys, err = f.Keys(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"prefs"}, keys)
}

func TestFilePurgeWithoutFile(t *testing.T) {
	t.Parallel()

	f := NewFile(filepath.Join(t.TempDir(), "absent.json"), "scope", nil)
	n, err := f.PurgeExpired(t.Context())
	require.NoError(t, err)
	require.Zero(t, n)
}
