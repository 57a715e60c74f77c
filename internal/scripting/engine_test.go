package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDirMissingIsFine(t *testing.T) {
	e := New(zap.NewNop())
	defer e.Close()
	require.NoError(t, e.LoadDir(filepath.Join(t.TempDir(), "missing")))
}

func TestGMCommandHook(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gm.lua"), []byte(`
function gm_command(issuer, command)
  last_issuer = issuer
  return command == "dance"
end
`), 0o644))

	e := New(zap.NewNop())
	defer e.Close()
	require.NoError(t, e.LoadDir(dir))

	handled, err := e.RunGMCommand("gm", "dance")
	require.NoError(t, err)
	require.True(t, handled)

	handled, err = e.RunGMCommand("gm", "fly")
	require.NoError(t, err)
	require.False(t, handled)
}

func TestGMCommandWithoutHook(t *testing.T) {
	e := New(zap.NewNop())
	defer e.Close()
	handled, err := e.RunGMCommand("gm", "anything")
	require.NoError(t, err)
	require.False(t, handled)
}
