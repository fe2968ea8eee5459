package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at fresh temp dirs
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	for _, key := range []string{"FINA_SERVER", "FINA_ACCESS_TOKEN", "FINA_USER_ID", "FINA_SUPERVISOR_ID"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultServer, cfg.Server)
	assert.False(t, cfg.IsAuthenticated())
	assert.Equal(t, "file", cfg.Log.Output)
	assert.Equal(t, filepath.Join(home, ".finactl", "finactl.log"), cfg.Log.FilePath)
}

func TestSaveAndLoad(t *testing.T) {
	home := isolate(t)

	in := &Config{
		Server:       "http://fina.example.com:8000",
		AccessToken:  "token-abcdefgh",
		UserID:       "analyst-1",
		SupervisorID: "SUP-9988",
	}
	in.Log.Level = "debug"
	in.Log.Format = "json"
	in.Log.Output = "file"
	in.Log.FilePath = filepath.Join(home, "logs", "cli.log")
	require.NoError(t, in.Save())

	info, err := os.Stat(filepath.Join(home, ".finactl", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	require.NoError(t, (&Config{Server: "http://a:8000", UserID: "from-file"}).Save())

	t.Setenv("FINA_SERVER", "http://b:8000")
	require.NoError(t, os.WriteFile(".env", []byte("FINA_SUPERVISOR_ID=SUP-1122\n"), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://b:8000", cfg.Server)
	assert.Equal(t, "from-file", cfg.UserID)
	assert.Equal(t, "SUP-1122", cfg.SupervisorID)
}

func TestRedacted(t *testing.T) {
	cfg := Config{AccessToken: "abcd1234efgh5678"}
	assert.Equal(t, "abcd****5678", cfg.Redacted().AccessToken)
	assert.Equal(t, "abcd1234efgh5678", cfg.AccessToken)
	assert.Equal(t, "****", Config{AccessToken: "short"}.Redacted().AccessToken)
}

// chdir changes the working directory for the test and restores it on
// cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
