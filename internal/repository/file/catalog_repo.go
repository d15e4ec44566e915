package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/DRSN-tech/catalog-enricher/internal/cfg"
	"github.com/DRSN-tech/catalog-enricher/internal/domain"
	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/jimlawless/whereami"
)

const defaultFileMode fs.FileMode = 0o644

// CatalogRepo хранит каталог в JSON-файле. Файл читается и записывается целиком.
type CatalogRepo struct {
	path   string
	logger logger.Logger
}

func NewCatalogRepo(cfg *cfg.CatalogCfg, logger logger.Logger) *CatalogRepo {
	return &CatalogRepo{
		path:   cfg.Path,
		logger: logger,
	}
}

func (r *CatalogRepo) Path() string {
	return r.path
}

// Load читает файл и разбирает каталог. Вместе с каталогом возвращает исходные байты.
func (r *CatalogRepo) Load(ctx context.Context) (*domain.Catalog, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %w", e.ErrCatalogAccess, err))
	}
	r.logger.Debugf("catalog file read, path: %s, bytes: %d", r.path, len(data))

	catalog, err := domain.ParseCatalog(data)
	if err != nil {
		return nil, nil, e.Wrap(r.path, err)
	}

	return catalog, data, nil
}

// Save перезаписывает файл каталога с отступом в два пробела.
// Запись идет во временный файл рядом с исходным и заменяет его через rename,
// права исходного файла сохраняются.
func (r *CatalogRepo) Save(ctx context.Context, catalog *domain.Catalog) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := encodeCatalog(catalog)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	mode := defaultFileMode
	if info, err := os.Stat(r.path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := writeFileAtomic(r.path, data, mode); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	r.logger.Debugf("catalog file written, path: %s, bytes: %d", r.path, len(data))

	return nil
}

func encodeCatalog(catalog *domain.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalog); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeFileAtomic(path string, data []byte, mode fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
