package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritableDirCheck(t *testing.T) {
	t.Run("writable", func(t *testing.T) {
		dir := t.TempDir()
		check := &WritableDirCheck{ID: "log_dir", Label: "Log directory", Dir: dir, Hint: "logging.dir"}

		result := check.Run(context.Background())
		assert.Equal(t, StatusPass, result.Status)
		assert.Equal(t, "log_dir", check.Name())
		assert.Equal(t, CategoryFiles, check.Category())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "probe file is removed")
	})

	t.Run("missing then fixed", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs", "camai")
		check := &WritableDirCheck{ID: "log_dir", Label: "Log directory", Dir: dir, Hint: "logging.dir"}

		result := check.Run(context.Background())
		assert.Equal(t, StatusWarn, result.Status)
		assert.True(t, result.Fixable)

		require.NoError(t, check.Fix())
		assert.Equal(t, StatusPass, check.Run(context.Background()).Status)
	})

	t.Run("a file, not a directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bridge")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		check := &WritableDirCheck{ID: "bridge_dir", Label: "Bridge directory", Dir: path, Hint: "bridge.dir"}

		result := check.Run(context.Background())
		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Suggestion, "bridge.dir")
	})
}
