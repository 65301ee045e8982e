package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/schema"
)

// MemoryTable keeps rows in process. It follows the Postgres semantics the
// callers rely on: NULLs sort last ascending, NOT NULL and UNIQUE columns are
// enforced, and rows handed out are copies.
type MemoryTable[T any] struct {
	mu     sync.RWMutex
	spec   Spec
	schema *schema.Schema
	rows   map[uuid.UUID]*T
	order  []uuid.UUID
	now    func() time.Time

	// FailWith, when set, is returned by every call. Lets tests drive the
	// store-failure paths.
	FailWith error
}

func NewMemoryTable[T any](spec Spec) *MemoryTable[T] {
	return &MemoryTable[T]{
		spec:   spec,
		schema: parseSchema[T](nil),
		rows:   map[uuid.UUID]*T{},
		now:    time.Now,
	}
}

// SetClock replaces the timestamp source.
func (t *MemoryTable[T]) SetClock(now func() time.Time) { t.now = now }

func (t *MemoryTable[T]) List(ctx context.Context, opt ListOptions) ([]T, error) {
	const op = "list"
	if t.FailWith != nil {
		return nil, translate(op, t.FailWith)
	}
	if err := t.spec.check(op, opt); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if t.matches(ctx, row, opt) {
			out = append(out, *row)
		}
	}

	if opt.OrderBy != "" {
		f := t.schema.LookUpField(opt.OrderBy)
		desc := opt.Direction == Desc
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := f.ValueOf(ctx, reflect.ValueOf(&out[i]))
			b, _ := f.ValueOf(ctx, reflect.ValueOf(&out[j]))
			c := compareValues(a, b)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	if opt.Limit > 0 && len(out) > opt.Limit {
		out = out[:opt.Limit]
	}
	return out, nil
}

func (t *MemoryTable[T]) matches(ctx context.Context, row *T, opt ListOptions) bool {
	rv := reflect.ValueOf(row)
	for col, want := range opt.Eq {
		got, _ := t.schema.LookUpField(col).ValueOf(ctx, rv)
		if isNull(got) || isNull(want) || compareValues(got, want) != 0 {
			return false
		}
	}
	for col, bound := range opt.Gte {
		got, _ := t.schema.LookUpField(col).ValueOf(ctx, rv)
		if isNull(got) || compareValues(got, bound) < 0 {
			return false
		}
	}
	return true
}

func (t *MemoryTable[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	if t.FailWith != nil {
		return nil, translate("get", t.FailWith)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, notFound("get")
	}
	cp := *row
	return &cp, nil
}

func (t *MemoryTable[T]) Insert(ctx context.Context, row *T) error {
	const op = "insert"
	if t.FailWith != nil {
		return translate(op, t.FailWith)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	rv := reflect.ValueOf(row)
	pk := t.schema.PrioritizedPrimaryField
	id, _ := pk.ValueOf(ctx, rv)
	uid, _ := id.(uuid.UUID)
	if uid == uuid.Nil {
		uid = uuid.New()
		if err := pk.Set(ctx, rv, uid); err != nil {
			return translate(op, err)
		}
	}
	if _, exists := t.rows[uid]; exists {
		return t.conflict(op, pk.DBName)
	}

	now := t.now()
	for _, f := range t.schema.Fields {
		if f.AutoCreateTime > 0 || f.AutoUpdateTime > 0 {
			if _, zero := f.ValueOf(ctx, rv); zero {
				if err := f.Set(ctx, rv, now); err != nil {
					return translate(op, err)
				}
			}
		}
	}
	if err := t.checkNotNull(ctx, op, rv); err != nil {
		return err
	}
	if err := t.checkUnique(ctx, op, row, uid); err != nil {
		return err
	}

	cp := *row
	t.rows[uid] = &cp
	t.order = append(t.order, uid)
	return nil
}

func (t *MemoryTable[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	const op = "update"
	if t.FailWith != nil {
		return nil, translate(op, t.FailWith)
	}
	if err := patchable(op, t.schema, fields); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.rows[id]
	if !ok {
		return nil, notFound(op)
	}
	next := *cur
	rv := reflect.ValueOf(&next)
	for col, v := range withUpdatedAt(t.schema, fields, t.now()) {
		f := t.schema.LookUpField(col)
		if isNull(v) && f.NotNull {
			return nil, t.notNull(op, col)
		}
		if err := f.Set(ctx, rv, v); err != nil {
			return nil, invalidf(op, "invalid value for %q: %v", col, err)
		}
	}
	if err := t.checkUnique(ctx, op, &next, id); err != nil {
		return nil, err
	}

	t.rows[id] = &next
	cp := next
	return &cp, nil
}

func (t *MemoryTable[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if t.FailWith != nil {
		return translate("delete", t.FailWith)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return notFound("delete")
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// checkNotNull rejects NULL in NOT NULL columns that have no default to fall
// back on. Defaults given as literals are applied first.
func (t *MemoryTable[T]) checkNotNull(ctx context.Context, op string, rv reflect.Value) error {
	for _, f := range t.schema.Fields {
		if !f.NotNull || f.DBName == "" {
			continue
		}
		v, _ := f.ValueOf(ctx, rv)
		if !isNull(v) {
			continue
		}
		switch {
		case f.DefaultValueInterface != nil:
			if err := f.Set(ctx, rv, f.DefaultValueInterface); err != nil {
				return translate(op, err)
			}
		case !f.HasDefaultValue:
			return t.notNull(op, f.DBName)
		}
	}
	return nil
}

func (t *MemoryTable[T]) notNull(op, col string) error {
	return &Error{
		Op:      op,
		Kind:    KindInvalid,
		Message: fmt.Sprintf(`null value in column "%s" of relation "%s" violates not-null constraint`, col, t.spec.Table),
	}
}

func (t *MemoryTable[T]) checkUnique(ctx context.Context, op string, row *T, self uuid.UUID) error {
	rv := reflect.ValueOf(row)
	for _, f := range t.schema.Fields {
		if !f.Unique || f.PrimaryKey {
			continue
		}
		v, _ := f.ValueOf(ctx, rv)
		if isNull(v) {
			continue
		}
		for id, other := range t.rows {
			if id == self {
				continue
			}
			ov, _ := f.ValueOf(ctx, reflect.ValueOf(other))
			if !isNull(ov) && compareValues(v, ov) == 0 {
				return t.conflict(op, f.DBName)
			}
		}
	}
	return nil
}

func (t *MemoryTable[T]) conflict(op, col string) error {
	return &Error{
		Op:      op,
		Kind:    KindConflict,
		Message: fmt.Sprintf(`duplicate key value violates unique constraint "%s_%s_key"`, t.spec.Table, col),
	}
}

/* ===============================
   Value comparison
=================================*/

var timeType = reflect.TypeOf(time.Time{})

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	if rv.Type() != timeType && rv.Type().ConvertibleTo(timeType) && rv.Kind() == reflect.Struct {
		return rv.Convert(timeType).Interface()
	}
	return rv.Interface()
}

func isNull(v any) bool { return deref(v) == nil }

// compareValues orders two column values. NULL is greater than everything.
func compareValues(a, b any) int {
	a, b = deref(a), deref(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			break
		}
		return av.Compare(bv)
	case string:
		bv, ok := b.(string)
		if !ok {
			break
		}
		return strings.Compare(av, bv)
	case bool:
		bv, ok := b.(bool)
		if !ok {
			break
		}
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case uuid.UUID:
		bv, ok := b.(uuid.UUID)
		if !ok {
			break
		}
		return strings.Compare(av.String(), bv.String())
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.CanInt() && rb.CanInt() {
		return cmpOrdered(ra.Int(), rb.Int())
	}
	if ra.CanFloat() && rb.CanFloat() {
		return cmpOrdered(ra.Float(), rb.Float())
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func cmpOrdered[N int64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
