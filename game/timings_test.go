package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTimingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseTimingsConfig(t *testing.T) {
	path := writeTimingsFile(t, `
startStageSeconds: 12
bettingStageSeconds: 45
lockBufferSeconds: 3
`)
	timings, err := ParseTimingsConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), timings.StartStageSeconds)
	assert.Equal(t, uint32(45), timings.BettingStageSeconds)
	assert.Equal(t, uint32(3), timings.LockBufferSeconds)
}

func TestParseTimingsConfigDefaultsZeroFields(t *testing.T) {
	path := writeTimingsFile(t, `lockBufferSeconds: 2`)
	timings, err := ParseTimingsConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimings().StartStageSeconds, timings.StartStageSeconds)
	assert.Equal(t, DefaultTimings().BettingStageSeconds, timings.BettingStageSeconds)
	assert.Equal(t, uint32(2), timings.LockBufferSeconds)
}

func TestParseTimingsConfigErrors(t *testing.T) {
	_, err := ParseTimingsConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading timings config")

	path := writeTimingsFile(t, "startStageSeconds: [not a number")
	_, err = ParseTimingsConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing timings YAML")
}

func TestStageDurations(t *testing.T) {
	timings := Timings{StartStageSeconds: 10, BettingStageSeconds: 20, LockBufferSeconds: 5}
	assert.Equal(t, "10s", timings.stageDuration(StageStart).String())
	assert.Equal(t, "20s", timings.stageDuration(StageBetting).String())
	assert.Equal(t, "5s", timings.lockBuffer().String())
}
