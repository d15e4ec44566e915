package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DRSN-tech/catalog-enricher/internal/domain"
	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCatalogRepo struct {
	data    []byte
	saved   []byte
	saves   int
	saveErr error
}

func (m *memCatalogRepo) Load(_ context.Context) (*domain.Catalog, []byte, error) {
	c, err := domain.ParseCatalog(m.data)
	if err != nil {
		return nil, nil, err
	}
	return c, m.data, nil
}

func (m *memCatalogRepo) Save(_ context.Context, c *domain.Catalog) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	out, err := json.Marshal(c)
	if err != nil {
		return err
	}
	m.saved = out
	m.saves++
	return nil
}

func (m *memCatalogRepo) Path() string { return "data/db.json" }

type fakeBackup struct {
	req *UploadBackupReq
	err error
}

func (f *fakeBackup) Upload(_ context.Context, req *UploadBackupReq) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.req = req
	return "catalog-backups/" + req.RunID + "/" + req.FileName, nil
}

type fakeCache struct {
	ids []string
	err error
}

func (f *fakeCache) DeleteProducts(_ context.Context, ids []string) error {
	f.ids = ids
	return f.err
}

type fakeProducer struct {
	req *EnrichedEventReq
	err error
}

func (f *fakeProducer) WriteEnrichedEvent(_ context.Context, req *EnrichedEventReq) error {
	f.req = req
	return f.err
}

const catalogJSON = `{"products":[{"id":"a","colors":["Navy","Dark"]},{"id":"b","colors":["Beige"]},{"id":"c"}]}`

func newTestUC(repo CatalogRepository, backup BackupRepository, cache CacheRepository, producer MessageProducer) *CatalogUseCase {
	uc := NewCatalogUC(repo, backup, cache, producer, logger.Nop{})
	uc.newRunID = func() string { return "run-1" }
	return uc
}

func TestCatalogUseCase_Enrich(t *testing.T) {
	repo := &memCatalogRepo{data: []byte(catalogJSON)}
	backup := &fakeBackup{}
	cache := &fakeCache{}
	producer := &fakeProducer{}

	res, err := newTestUC(repo, backup, cache, producer).Enrich(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, "catalog-backups/run-1/db.json", res.BackupKey)
	assert.Equal(t, map[domain.Color]int{domain.Navy: 1, domain.Cream: 1, domain.Multi: 1}, res.Colors)
	assert.Equal(t, map[domain.Gender]int{domain.Male: 2, domain.Female: 1}, res.Genders)

	assert.Equal(t, 1, repo.saves)
	assert.Equal(t,
		`{"products":[{"id":"a","colors":["Navy","Dark"],"gender":"male","color":"Navy"},{"id":"b","colors":["Beige"],"gender":"female","color":"Cream"},{"id":"c","gender":"male","color":"Multi"}]}`,
		string(repo.saved),
	)

	require.NotNil(t, backup.req)
	assert.Equal(t, "db.json", backup.req.FileName)
	assert.Equal(t, catalogJSON, string(backup.req.Data))

	assert.Equal(t, []string{"a", "b", "c"}, cache.ids)

	require.NotNil(t, producer.req)
	assert.Equal(t, "run-1", producer.req.RunID)
	assert.Equal(t, 3, producer.req.Updated)
}

func TestCatalogUseCase_Enrich_WithoutSinks(t *testing.T) {
	repo := &memCatalogRepo{data: []byte(catalogJSON)}

	res, err := newTestUC(repo, nil, nil, nil).Enrich(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Updated)
	assert.Empty(t, res.BackupKey)
	assert.Equal(t, 1, repo.saves)
}

func TestCatalogUseCase_Enrich_ShapeErrorDoesNotWrite(t *testing.T) {
	repo := &memCatalogRepo{data: []byte(`{"products":[{"id":"a"},"oops"]}`)}
	backup := &fakeBackup{}

	_, err := newTestUC(repo, backup, nil, nil).Enrich(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, e.ErrCatalogShape)
	assert.Equal(t, 0, repo.saves)
	assert.Nil(t, backup.req)
}

func TestCatalogUseCase_Enrich_BackupFailureAbortsBeforeSave(t *testing.T) {
	repo := &memCatalogRepo{data: []byte(catalogJSON)}
	backupErr := errors.New("bucket unavailable")

	_, err := newTestUC(repo, &fakeBackup{err: backupErr}, nil, nil).Enrich(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, backupErr)
	assert.Equal(t, 0, repo.saves)
}

func TestCatalogUseCase_Enrich_SaveFailure(t *testing.T) {
	saveErr := errors.New("disk full")
	repo := &memCatalogRepo{data: []byte(catalogJSON), saveErr: saveErr}
	producer := &fakeProducer{}

	_, err := newTestUC(repo, nil, nil, producer).Enrich(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, saveErr)
	assert.Nil(t, producer.req)
}

func TestCatalogUseCase_Enrich_SinkFailuresAreNotFatal(t *testing.T) {
	repo := &memCatalogRepo{data: []byte(catalogJSON)}
	cache := &fakeCache{err: errors.New("redis down")}
	producer := &fakeProducer{err: errors.New("broker not available")}

	res, err := newTestUC(repo, nil, cache, producer).Enrich(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, 1, repo.saves)
}
