package queries

import (
	"errors"

	"fooddelivery/internal/pkg/guard"
)

var ErrListFreeOrdersQueryIsNotConstructed = errors.New(
	"ListFreeOrdersQuery must be created via NewListFreeOrdersQuery constructor",
)

// ListFreeOrdersQuery retrieves the orders waiting for a courier.
//
// Example:
//
//	query := NewListFreeOrdersQuery()
//	handler := NewListFreeOrdersQueryHandler(db)
//
//	cards, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list free orders: %w", err)
//	}
type ListFreeOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewListFreeOrdersQuery() ListFreeOrdersQuery {
	return ListFreeOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q ListFreeOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListFreeOrdersQueryIsNotConstructed)
}
