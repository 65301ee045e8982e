package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// GormTable is the Postgres-backed Table.
type GormTable[T any] struct {
	db     *gorm.DB
	spec   Spec
	schema *schema.Schema
}

func NewGormTable[T any](db *gorm.DB, spec Spec) *GormTable[T] {
	return &GormTable[T]{db: db, spec: spec, schema: parseSchema[T](db.NamingStrategy)}
}

func (t *GormTable[T]) List(ctx context.Context, opt ListOptions) ([]T, error) {
	const op = "list"
	if err := t.spec.check(op, opt); err != nil {
		return nil, err
	}

	q := t.db.WithContext(ctx).Model(new(T))
	for col, v := range opt.Eq {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	for col, v := range opt.Gte {
		q = q.Where(clause.Gte{Column: clause.Column{Name: col}, Value: v})
	}
	if opt.OrderBy != "" {
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Name: opt.OrderBy},
			Desc:   opt.Direction == Desc,
		})
	}
	if opt.Limit > 0 {
		q = q.Limit(opt.Limit)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(op, err)
	}
	return rows, nil
}

func (t *GormTable[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := t.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, translate("get", err)
	}
	return &row, nil
}

func (t *GormTable[T]) Insert(ctx context.Context, row *T) error {
	return translate("insert", t.db.WithContext(ctx).Create(row).Error)
}

func (t *GormTable[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	const op = "update"
	if err := patchable(op, t.schema, fields); err != nil {
		return nil, err
	}
	res := t.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Updates(withUpdatedAt(t.schema, fields, time.Now()))
	if res.Error != nil {
		return nil, translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound(op)
	}
	return t.GetByID(ctx, id)
}

func (t *GormTable[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("delete")
	}
	return nil
}
