package ocr

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_MissingTool(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), "definitely-not-a-real-binary-xyz", nil)
	require.Error(t, err)

	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, -1, te.ExitCode)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestExecRunner_ExitCodeAndStderr(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, stderr, err := ExecRunner{Env: []string{"OCR_TEST_VAR=hello"}}.Run(context.Background(), "sh", nil,
		"-c", `printf "$OCR_TEST_VAR"; echo boom >&2; exit 3`)
	require.Error(t, err)
	assert.Equal(t, "hello", string(out))
	assert.Contains(t, string(stderr), "boom")

	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.ExitCode)
	assert.Contains(t, te.Error(), "sh failed (exit 3): boom")
}

func TestExecRunner_Success(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, _, err := ExecRunner{Dir: t.TempDir()}.Run(context.Background(), "sh", nil, "-c", "echo ok")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(out))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "ab...(truncated)", clip("abcd", 2))
}
