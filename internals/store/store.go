// Package store is the record store client: one generic table handle per
// record kind with list/get/insert/update/delete.
package store

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ListOptions describes a single-column ordered read with optional filters.
// Eq is column = value, Gte is column >= value. All conditions are ANDed.
type ListOptions struct {
	OrderBy   string
	Direction Direction
	Eq        map[string]any
	Gte       map[string]any
	Limit     int
}

// Table is the contract both the Postgres and the in-memory implementations honour.
type Table[T any] interface {
	List(ctx context.Context, opt ListOptions) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Insert(ctx context.Context, row *T) error
	// Update patches the named columns only and bumps updated_at.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Spec whitelists the columns a table may be ordered or filtered by.
type Spec struct {
	Table      string
	Sortable   []string
	Filterable []string
}

func (s Spec) canSort(col string) bool   { return slices.Contains(s.Sortable, col) }
func (s Spec) canFilter(col string) bool { return slices.Contains(s.Filterable, col) }

func (s Spec) check(op string, opt ListOptions) error {
	if opt.OrderBy != "" && !s.canSort(opt.OrderBy) {
		return invalidf(op, "cannot order %s by %q", s.Table, opt.OrderBy)
	}
	if opt.Direction != "" && opt.Direction != Asc && opt.Direction != Desc {
		return invalidf(op, "unknown direction %q", opt.Direction)
	}
	for col := range opt.Eq {
		if !s.canFilter(col) {
			return invalidf(op, "cannot filter %s by %q", s.Table, col)
		}
	}
	for col := range opt.Gte {
		if !s.canFilter(col) && !s.canSort(col) {
			return invalidf(op, "cannot filter %s by %q", s.Table, col)
		}
	}
	return nil
}
