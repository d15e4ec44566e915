package kafka

import (
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-enricher/internal/domain"
	"github.com/DRSN-tech/catalog-enricher/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestGetPayloadBytes(t *testing.T) {
	req := &usecase.EnrichedEventReq{
		RunID:   "run-1",
		Path:    "db.json",
		Updated: 3,
		Genders: map[domain.Gender]int{domain.Male: 2, domain.Female: 1},
		Colors:  map[domain.Color]int{domain.Navy: 2, domain.Multi: 1},
	}
	now := time.Unix(1700000000, 0)

	data, err := GetPayloadBytes(req, "event-1", now)
	require.NoError(t, err)

	var event structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &event))

	got := event.AsMap()
	assert.Equal(t, "event-1", got["event_id"])
	assert.Equal(t, "catalog.enriched", got["type"])
	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, "db.json", got["path"])
	assert.Equal(t, float64(3), got["updated"])
	assert.Equal(t, float64(now.UnixNano()), got["event_timestamp"])
	assert.Equal(t, map[string]any{"male": float64(2), "female": float64(1)}, got["genders"])
	assert.Equal(t, map[string]any{"Navy": float64(2), "Multi": float64(1)}, got["colors"])
	assert.Equal(t, []any{"Multi", "Navy"}, got["palette_hits"])
}

func TestGetPayloadBytes_Deterministic(t *testing.T) {
	req := &usecase.EnrichedEventReq{
		RunID:   "run-1",
		Colors:  map[domain.Color]int{domain.Navy: 1, domain.Blue: 1, domain.Pink: 1},
		Genders: map[domain.Gender]int{domain.Male: 2, domain.Female: 1},
	}
	now := time.Unix(1, 0)

	a, err := GetPayloadBytes(req, "e", now)
	require.NoError(t, err)
	b, err := GetPayloadBytes(req, "e", now)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
