package usecase

import "github.com/DRSN-tech/catalog-enricher/internal/domain"

// CATALOG USECASE

// EnrichRes — итог одного прогона разметки каталога.
type EnrichRes struct {
	RunID     string
	Path      string
	Updated   int
	Genders   map[domain.Gender]int
	Colors    map[domain.Color]int
	BackupKey string // пустой, если резервная копия не настроена
}

// REPOSITORIES

// UploadBackupReq — запрос на сохранение исходного файла каталога.
type UploadBackupReq struct {
	RunID    string
	FileName string
	Data     []byte
}

// INFRASTRUCTURE

// EnrichedEventReq — событие о завершенной разметке каталога.
type EnrichedEventReq struct {
	RunID   string
	Path    string
	Updated int
	Genders map[domain.Gender]int
	Colors  map[domain.Color]int
}

// MAPPERS

func NewEnrichRes(runID string, path string, stats *domain.EnrichStats, backupKey string) *EnrichRes {
	return &EnrichRes{
		RunID:     runID,
		Path:      path,
		Updated:   stats.Updated,
		Genders:   stats.Genders,
		Colors:    stats.Colors,
		BackupKey: backupKey,
	}
}

func NewUploadBackupReq(runID string, fileName string, data []byte) *UploadBackupReq {
	return &UploadBackupReq{
		RunID:    runID,
		FileName: fileName,
		Data:     data,
	}
}

func NewEnrichedEventReq(res *EnrichRes) *EnrichedEventReq {
	return &EnrichedEventReq{
		RunID:   res.RunID,
		Path:    res.Path,
		Updated: res.Updated,
		Genders: res.Genders,
		Colors:  res.Colors,
	}
}
