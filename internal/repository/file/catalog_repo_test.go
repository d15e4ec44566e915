package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/DRSN-tech/catalog-enricher/internal/cfg"
	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, content string) (*CatalogRepo, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return NewCatalogRepo(&cfg.CatalogCfg{Path: path}, logger.Nop{}), path
}

func TestCatalogRepo_LoadEnrichSave(t *testing.T) {
	repo, path := newRepo(t, `{"products":[{"id":"1","title":"Tee & <Polo>","colors":["Light Blue"]},{"id":"2","colors":[]}],"cart":[]}`)
	ctx := context.Background()

	catalog, original, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(original), `"cart":[]`)

	_, err = catalog.Enrich()
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, catalog))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `{
  "products": [
    {
      "id": "1",
      "title": "Tee & <Polo>",
      "colors": [
        "Light Blue"
      ],
      "gender": "male",
      "color": "Blue"
    },
    {
      "id": "2",
      "colors": [],
      "gender": "female",
      "color": "Multi"
    }
  ],
  "cart": []
}`
	assert.Equal(t, want, string(got))
}

func TestCatalogRepo_SaveKeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	repo, path := newRepo(t, `{"products":[]}`)
	ctx := context.Background()

	catalog, _, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, catalog))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestCatalogRepo_LoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		repo, _ := newRepo(t, "")
		_, _, err := repo.Load(context.Background())
		assert.ErrorIs(t, err, e.ErrCatalogAccess)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		repo, _ := newRepo(t, `{"products": [}`)
		_, _, err := repo.Load(context.Background())
		assert.ErrorIs(t, err, e.ErrCatalogParse)
	})

	t.Run("bad product shape", func(t *testing.T) {
		repo, path := newRepo(t, `{"products": [42]}`)
		_, _, err := repo.Load(context.Background())
		assert.ErrorIs(t, err, e.ErrCatalogShape)

		got, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, `{"products": [42]}`, string(got))
	})

	t.Run("cancelled context", func(t *testing.T) {
		repo, _ := newRepo(t, `{"products": []}`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := repo.Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
