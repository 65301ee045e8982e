package store

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type widget struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;column:id"`
	Name      string         `gorm:"type:text;not null;column:name"`
	Code      *string        `gorm:"type:text;unique;column:code"`
	Day       datatypes.Date `gorm:"type:date;not null;column:day"`
	IsActive  bool           `gorm:"not null;default:true;column:is_active"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

var widgetSpec = Spec{
	Table:      "widgets",
	Sortable:   []string{"day", "created_at", "name", "code"},
	Filterable: []string{"is_active", "code"},
}

func day(s string) datatypes.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return datatypes.Date(t)
}

func strPtr(s string) *string { return &s }

// tickingTable returns a table whose clock advances a minute per reading.
func tickingTable() *MemoryTable[widget] {
	tbl := NewMemoryTable[widget](widgetSpec)
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	tbl.SetClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	})
	return tbl
}

func TestMemoryTable_InsertThenList(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()

	w := &widget{Name: "first", Day: day("2025-04-01"), IsActive: true}
	require.NoError(t, tbl.Insert(ctx, w))
	assert.NotEqual(t, uuid.Nil, w.ID)
	assert.False(t, w.CreatedAt.IsZero())

	rows, err := tbl.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0].Name)
	assert.Equal(t, w.ID, rows[0].ID)
}

func TestMemoryTable_Ordering(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()

	for _, d := range []string{"2025-06-01", "2025-01-15", "2025-03-10"} {
		require.NoError(t, tbl.Insert(ctx, &widget{Name: d, Day: day(d)}))
	}

	asc, err := tbl.List(ctx, ListOptions{OrderBy: "day", Direction: Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-15", "2025-03-10", "2025-06-01"}, names(asc))

	// created_at follows insertion order because the clock ticks.
	desc, err := tbl.List(ctx, ListOptions{OrderBy: "created_at", Direction: Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-10", "2025-01-15", "2025-06-01"}, names(desc))

	limited, err := tbl.List(ctx, ListOptions{OrderBy: "day", Direction: Asc, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMemoryTable_NullsSortLastAscending(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()
	require.NoError(t, tbl.Insert(ctx, &widget{Name: "nil", Day: day("2025-01-01")}))
	require.NoError(t, tbl.Insert(ctx, &widget{Name: "b", Code: strPtr("b"), Day: day("2025-01-01")}))
	require.NoError(t, tbl.Insert(ctx, &widget{Name: "a", Code: strPtr("a"), Day: day("2025-01-01")}))

	rows, err := tbl.List(ctx, ListOptions{OrderBy: "code", Direction: Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "nil"}, names(rows))

	rows, err = tbl.List(ctx, ListOptions{OrderBy: "code", Direction: Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"nil", "b", "a"}, names(rows))
}

func TestMemoryTable_Filters(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()
	require.NoError(t, tbl.Insert(ctx, &widget{Name: "on", Day: day("2025-05-01"), IsActive: true}))
	require.NoError(t, tbl.Insert(ctx, &widget{Name: "off", Day: day("2025-02-01"), IsActive: false}))

	rows, err := tbl.List(ctx, ListOptions{Eq: map[string]any{"is_active": true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"on"}, names(rows))

	rows, err = tbl.List(ctx, ListOptions{Gte: map[string]any{"day": time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}})
	require.NoError(t, err)
	assert.Equal(t, []string{"on"}, names(rows))
}

func TestMemoryTable_RejectsUnknownColumns(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()

	_, err := tbl.List(ctx, ListOptions{OrderBy: "name; drop table widgets"})
	assert.Equal(t, KindInvalid, KindOf(err))

	_, err = tbl.List(ctx, ListOptions{Eq: map[string]any{"name": "x"}})
	assert.Equal(t, KindInvalid, KindOf(err))

	w := &widget{Name: "x", Day: day("2025-01-01")}
	require.NoError(t, tbl.Insert(ctx, w))
	_, err = tbl.Update(ctx, w.ID, map[string]any{"nope": 1})
	assert.Equal(t, KindInvalid, KindOf(err))
	_, err = tbl.Update(ctx, w.ID, map[string]any{"id": uuid.New()})
	assert.Equal(t, KindInvalid, KindOf(err))
}

func TestMemoryTable_UpdateIsAPatch(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()
	w := &widget{Name: "before", Code: strPtr("c1"), Day: day("2025-04-01"), IsActive: true}
	require.NoError(t, tbl.Insert(ctx, w))

	got, err := tbl.Update(ctx, w.ID, map[string]any{"name": "after"})
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.True(t, got.UpdatedAt.After(w.UpdatedAt))

	again, err := tbl.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", again.Name)
	require.NotNil(t, again.Code)
	assert.Equal(t, "c1", *again.Code)
	assert.Equal(t, w.Day, again.Day)
	assert.Equal(t, w.CreatedAt, again.CreatedAt)

	cleared, err := tbl.Update(ctx, w.ID, map[string]any{"code": (*string)(nil)})
	require.NoError(t, err)
	assert.Nil(t, cleared.Code)
}

func TestMemoryTable_Constraints(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()
	a := &widget{Name: "a", Code: strPtr("dup"), Day: day("2025-01-01")}
	require.NoError(t, tbl.Insert(ctx, a))

	err := tbl.Insert(ctx, &widget{Name: "b", Code: strPtr("dup"), Day: day("2025-01-01")})
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), "duplicate key value")

	_, err = tbl.Update(ctx, a.ID, map[string]any{"name": nil})
	assert.Equal(t, KindInvalid, KindOf(err))
	assert.Contains(t, err.Error(), "not-null")
}

type memo struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Body   *string   `gorm:"type:text;not null;column:body"`
	Status *string   `gorm:"type:text;not null;default:draft;column:status"`
}

func TestMemoryTable_InsertEnforcesNotNull(t *testing.T) {
	ctx := context.Background()
	tbl := NewMemoryTable[memo](Spec{Table: "memos"})

	err := tbl.Insert(ctx, &memo{})
	assert.Equal(t, KindInvalid, KindOf(err))
	assert.Contains(t, err.Error(), `null value in column "body"`)

	rows, err := tbl.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	m := &memo{Body: strPtr("hello")}
	require.NoError(t, tbl.Insert(ctx, m))
	require.NotNil(t, m.Status)
	assert.Equal(t, "draft", *m.Status)
}

func TestMemoryTable_MissingRows(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()
	w := &widget{Name: "gone", Day: day("2025-01-01")}
	require.NoError(t, tbl.Insert(ctx, w))
	require.NoError(t, tbl.Delete(ctx, w.ID))

	_, err := tbl.GetByID(ctx, w.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(tbl.Delete(ctx, w.ID)))
	_, err = tbl.Update(ctx, w.ID, map[string]any{"name": "x"})
	assert.True(t, IsNotFound(err))

	rows, err := tbl.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryTable_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	tbl := tickingTable()
	w := &widget{Name: "orig", Day: day("2025-01-01")}
	require.NoError(t, tbl.Insert(ctx, w))
	w.Name = "mutated"

	got, err := tbl.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "orig", got.Name)
}

func TestMemoryTable_FailWithKeepsBackendMessage(t *testing.T) {
	tbl := tickingTable()
	tbl.FailWith = &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "widgets_pkey"`}

	_, err := tbl.List(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, `duplicate key value violates unique constraint "widgets_pkey"`, err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		in   error
		kind Kind
		code int
	}{
		{&pgconn.PgError{Code: "23503"}, KindInvalid, http.StatusBadRequest},
		{&pgconn.PgError{Code: "22007"}, KindInvalid, http.StatusBadRequest},
		{&pgconn.PgError{Code: "57014"}, KindUnavailable, http.StatusBadGateway},
		{&pgconn.PgError{Code: "XX000"}, KindInternal, http.StatusInternalServerError},
		{context.DeadlineExceeded, KindUnavailable, http.StatusBadGateway},
		{errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := translate("op", tc.in)
		assert.Equal(t, tc.kind, KindOf(err), "%v", tc.in)
		assert.Equal(t, tc.code, HTTPStatus(err), "%v", tc.in)
		assert.ErrorIs(t, err, tc.in)
	}
	assert.Nil(t, translate("op", nil))
}

func names(rows []widget) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}
