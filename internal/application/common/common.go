// Package common holds small pieces shared by the application services:
// list paging input and post-commit event publishing.
package common

import (
	"context"

	"github.com/gemline/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// Paging limits for list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery is the paging part of every list request
type PageQuery struct {
	Page     int    `form:"page" json:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" json:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" json:"order_by"`
	OrderDir string `form:"order_dir" json:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" json:"search"`
}

// Filter converts the query into a repository filter with defaults applied
func (q PageQuery) Filter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = min(q.PageSize, MaxPageSize)
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.Search = q.Search
	return f
}

// PublishEvents hands the pending events of each aggregate to the bus and
// clears them. It is called after the transaction has committed, so a
// publish failure is logged and never undoes the write.
func PublishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	Publish(ctx, publisher, logger, events...)
}

// Publish sends standalone events, logging failures
func Publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events ...shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil && logger != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("first_type", events[0].EventType()),
			zap.Error(err))
	}
}
