package usecase

import "context"

type MessageProducer interface {
	WriteEnrichedEvent(ctx context.Context, req *EnrichedEventReq) error
}
