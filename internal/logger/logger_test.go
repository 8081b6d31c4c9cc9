package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLogFilePathDefaultsToWorkdir(t *testing.T) {
	tmp := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(tmp))

	got, err := resolveLogFilePath(Options{})
	require.NoError(t, err)

	realTmp, err := filepath.EvalSymlinks(tmp)
	require.NoError(t, err)
	realDir, err := filepath.EvalSymlinks(filepath.Dir(got))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(realTmp, defaultDir), realDir)
	assert.Equal(t, defaultFilename, filepath.Base(got))
}

func TestReleaseModeWritesJSONToFile(t *testing.T) {
	tmp := t.TempDir()
	log := New("release", Options{Dir: tmp, Filename: "release.log"})
	log.Sugar().Infow("order_placed", "order_id", 42)
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmp, "release.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"event":"order_placed"`)
	assert.Contains(t, string(content), `"order_id":42`)
}

func TestDebugModeSkipsFile(t *testing.T) {
	tmp := t.TempDir()
	log := New("debug", Options{Dir: tmp, Filename: "debug.log"})
	log.Info("cart_loaded")
	_ = log.Sync()

	_, err := os.Stat(filepath.Join(tmp, "debug.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestPositiveOr(t *testing.T) {
	assert.Equal(t, 5, positiveOr(5, 9))
	assert.Equal(t, 9, positiveOr(0, 9))
	assert.Equal(t, 9, positiveOr(-1, 9))
}
