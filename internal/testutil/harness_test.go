package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/block/internal/ctxlog"
)

func TestWriteFiles(t *testing.T) {
	dir := WriteFiles(t, map[string]string{"a/b.hcl": "x"})

	content, err := os.ReadFile(filepath.Join(dir, "a", "b.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(content))
}

func TestLoggerContext_CapturesDebug(t *testing.T) {
	ctx, buf := LoggerContext(t)
	ctxlog.FromContext(ctx).Debug("probe")
	assert.Contains(t, buf.String(), "msg=probe")
}
