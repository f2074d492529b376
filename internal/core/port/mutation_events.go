package port

import (
	"context"
	"rental-listing-client/internal/core/domain"
)

// MutationEventsPort публикует события об успешных изменениях каталога.
type MutationEventsPort interface {
	PublishMutation(ctx context.Context, event domain.MutationEvent) error
}
