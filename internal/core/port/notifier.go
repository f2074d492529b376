package port

import (
	"context"
	"rental-listing-client/internal/core/domain"
)

// ListingEventType - тип события контроллера списка.
type ListingEventType string

const (
	EventSnapshot   ListingEventType = "snapshot"
	EventFailure    ListingEventType = "failure"
	EventStatistics ListingEventType = "statistics"
)

// ListingEvent - событие, которое получают подписчики сессии.
type ListingEvent struct {
	Type       ListingEventType
	SessionID  string
	Snapshot   *domain.ListingSnapshot
	Failure    *domain.ErrorDescriptor
	Statistics *domain.LandlordStatistics
}

// NotifierPort - контракт для отправки обновлений в реальном времени.
type NotifierPort interface {
	Notify(ctx context.Context, event ListingEvent)
}
