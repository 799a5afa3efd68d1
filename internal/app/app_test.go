package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

func TestNewPipeline(t *testing.T) {
	t.Setenv("OCR_DPI", "300")
	cfg := common.LoadConfig()
	p := NewPipeline(cfg, nil)

	require.NotNil(t, p.Processor)
	assert.Equal(t, len(constants.Suppliers())-1, p.Registry.Len())
	assert.Equal(t, 300, ocrConfig(cfg).DPI)

	env := p.Processor.Process(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.False(t, env.Success)
	assert.Equal(t, constants.CodeFileNotFound, env.FirstErrorCode())
}
