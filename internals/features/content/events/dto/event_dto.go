package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"kizuna_web/internals/features/content/events/model"
	helper "kizuna_web/internals/helpers"
)

/* =========================================================
   CREATE / FULL EDIT (admin form + JSON POST)
   ========================================================= */

type EventRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Date        string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Location    string `json:"location" form:"location" validate:"required"`
}

func (r *EventRequest) Normalize() {
	r.Title = helper.CleanText(r.Title)
	r.Description = helper.CleanText(r.Description)
	r.Date = helper.CleanText(r.Date)
	r.Location = helper.CleanText(r.Location)
}

func (r EventRequest) ToModel() (*model.EventModel, error) {
	d, err := helper.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &model.EventModel{
		Title:       r.Title,
		Description: r.Description,
		Date:        d,
		Location:    r.Location,
	}, nil
}

// ToUpdates is the column set an edit-form submit writes.
func (r EventRequest) ToUpdates() (map[string]any, error) {
	d, err := helper.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"title":       r.Title,
		"description": r.Description,
		"date":        d,
		"location":    r.Location,
	}, nil
}

// FormFromModel seeds the edit form.
func FormFromModel(m *model.EventModel) EventRequest {
	return EventRequest{
		Title:       m.Title,
		Description: m.Description,
		Date:        helper.FormatDate(m.Date),
		Location:    m.Location,
	}
}

/* =========================================================
   PATCH (JSON API): tri-state
   ========================================================= */

type UpdateEventRequest struct {
	Title       helper.PatchField[string] `json:"title"`
	Description helper.PatchField[string] `json:"description"`
	Date        helper.PatchField[string] `json:"date"`
	Location    helper.PatchField[string] `json:"location"`
}

func (p *UpdateEventRequest) Normalize() {
	for _, f := range []*helper.PatchField[string]{&p.Title, &p.Description, &p.Date, &p.Location} {
		if f.Present && f.Value != nil {
			v := helper.CleanText(*f.Value)
			f.Value = &v
		}
	}
}

// ToUpdates builds the patch. Every column is NOT NULL, so present fields
// must carry a non-empty value.
func (p UpdateEventRequest) ToUpdates() (map[string]any, error) {
	out := map[string]any{}
	set := func(col string, f helper.PatchField[string]) error {
		if !f.Present {
			return nil
		}
		if f.Value == nil || *f.Value == "" {
			return fmt.Errorf("%s is required", col)
		}
		out[col] = *f.Value
		return nil
	}
	if err := set("title", p.Title); err != nil {
		return nil, err
	}
	if err := set("description", p.Description); err != nil {
		return nil, err
	}
	if err := set("location", p.Location); err != nil {
		return nil, err
	}
	if err := set("date", p.Date); err != nil {
		return nil, err
	}
	if raw, ok := out["date"].(string); ok {
		d, err := helper.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		out["date"] = d
	}
	return out, nil
}

/* =========================================================
   RESPONSE
   ========================================================= */

type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromModel(m *model.EventModel) EventResponse {
	return EventResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Date:        helper.FormatDate(m.Date),
		Location:    m.Location,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromModels(rows []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
