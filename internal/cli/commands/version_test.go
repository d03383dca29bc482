package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVersion(t *testing.T, version, buildDate, gitCommit string) string {
	t.Helper()
	cmd := NewVersionCommand(version, buildDate, gitCommit)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestNewVersionCommand(t *testing.T) {
	t.Run("dev build omits unknown fields", func(t *testing.T) {
		out := runVersion(t, "0.1.0", "unknown", "unknown")
		assert.Contains(t, out, "SQLWeave v0.1.0")
		assert.Contains(t, out, "lineage")
		assert.NotContains(t, out, "Build date")
		assert.NotContains(t, out, "Git commit")
	})

	t.Run("release build prints stamp", func(t *testing.T) {
		out := runVersion(t, "1.2.3", "2026-08-25", "abc1234")
		assert.Contains(t, out, "SQLWeave v1.2.3")
		assert.Contains(t, out, "2026-08-25")
		assert.Contains(t, out, "abc1234")
	})

	t.Run("bare version", func(t *testing.T) {
		assert.Contains(t, runVersion(t, "dev", "", ""), "SQLWeave vdev")
	})
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand("test", "", "")
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}
