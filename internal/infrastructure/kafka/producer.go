package kafka

import (
	"context"
	"sort"
	"time"

	"github.com/DRSN-tech/catalog-enricher/internal/cfg"
	"github.com/DRSN-tech/catalog-enricher/internal/infrastructure"
	"github.com/DRSN-tech/catalog-enricher/internal/usecase"
	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Producer публикует события о разметке каталога.
// Значение сообщения — google.protobuf.Struct в бинарном виде.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	retry  infrastructure.RetryPolicy
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg, retry infrastructure.RetryPolicy) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchSize:              1,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		retry:  retry,
	}
}

func (p *Producer) WriteEnrichedEvent(ctx context.Context, req *usecase.EnrichedEventReq) error {
	const op = "Producer.WriteEnrichedEvent"

	value, err := GetPayloadBytes(req, uuid.NewString(), time.Now())
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	msg := kafka.Message{
		Key:   []byte(req.RunID),
		Value: value,
	}

	return infrastructure.Retry(ctx, p.retry, p.logger, op, func(ctx context.Context) error {
		return p.writer.WriteMessages(ctx, msg)
	})
}

func (p *Producer) Close(_ context.Context) error {
	return p.writer.Close()
}

// GetPayloadBytes сериализует событие в google.protobuf.Struct.
func GetPayloadBytes(req *usecase.EnrichedEventReq, eventID string, now time.Time) ([]byte, error) {
	genders := make(map[string]any, len(req.Genders))
	for g, n := range req.Genders {
		genders[string(g)] = n
	}

	colors := make(map[string]any, len(req.Colors))
	for c, n := range req.Colors {
		colors[string(c)] = n
	}

	event, err := structpb.NewStruct(map[string]any{
		"event_id":        eventID,
		"event_timestamp": now.UnixNano(),
		"type":            "catalog.enriched",
		"run_id":          req.RunID,
		"path":            req.Path,
		"updated":         req.Updated,
		"genders":         genders,
		"colors":          colors,
		"palette_hits":    paletteHits(req),
	})
	if err != nil {
		return nil, err
	}

	return proto.MarshalOptions{Deterministic: true}.Marshal(event)
}

// paletteHits — цвета, встретившиеся в каталоге, по алфавиту.
func paletteHits(req *usecase.EnrichedEventReq) []any {
	names := make([]string, 0, len(req.Colors))
	for c := range req.Colors {
		names = append(names, string(c))
	}
	sort.Strings(names)

	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
