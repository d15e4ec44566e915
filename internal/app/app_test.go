package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	config "github.com/DRSN-tech/catalog-enricher/internal/cfg"
	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, content string) (*App, string, *bytes.Buffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := &config.Config{
		Catalog: &config.CatalogCfg{Path: path},
		Sink:    &config.SinkCfg{MaxRetries: 1, ShutdownTimeout: time.Second},
	}

	a, err := NewApp(cfg, logger.Nop{})
	require.NoError(t, err)

	var out bytes.Buffer
	a.out = &out
	return a, path, &out
}

func TestApp_Run(t *testing.T) {
	a, path, out := newTestApp(t, `{"products":[{"id":"1","colors":["Olive Green"]},{"id":"2","colors":["Grey"]},{"id":"3"}]}`)

	require.NoError(t, a.Run())
	assert.Equal(t, "Updated 3 products with gender and color fields\n", out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		Products []struct {
			Gender string `json:"gender"`
			Color  string `json:"color"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Products, 3)

	assert.Equal(t, "male", got.Products[0].Gender)
	assert.Equal(t, "Olive", got.Products[0].Color)
	assert.Equal(t, "female", got.Products[1].Gender)
	assert.Equal(t, "Multi", got.Products[1].Color)
	assert.Equal(t, "male", got.Products[2].Gender)
	assert.Equal(t, "Multi", got.Products[2].Color)
}

func TestApp_Run_ParseErrorLeavesFileUntouched(t *testing.T) {
	const broken = `{"products": [{"id": "1",]}`
	a, path, out := newTestApp(t, broken)

	err := a.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrCatalogParse)
	assert.Empty(t, out.String())

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, broken, string(data))
}
