package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"kizuna_web/internals/features/content/news/model"
	helper "kizuna_web/internals/helpers"
)

type NewsRequest struct {
	Title         string `json:"title" form:"title" validate:"required"`
	Content       string `json:"content" form:"content" validate:"required"`
	PublishedDate string `json:"published_date" form:"published_date" validate:"required,datetime=2006-01-02"`
}

func (r *NewsRequest) Normalize() {
	r.Title = helper.CleanText(r.Title)
	r.Content = helper.CleanText(r.Content)
	r.PublishedDate = helper.CleanText(r.PublishedDate)
}

func (r NewsRequest) ToModel() (*model.NewsModel, error) {
	d, err := helper.ParseDate(r.PublishedDate)
	if err != nil {
		return nil, err
	}
	return &model.NewsModel{Title: r.Title, Content: r.Content, PublishedDate: d}, nil
}

func (r NewsRequest) ToUpdates() (map[string]any, error) {
	d, err := helper.ParseDate(r.PublishedDate)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"title":          r.Title,
		"content":        r.Content,
		"published_date": d,
	}, nil
}

func FormFromModel(m *model.NewsModel) NewsRequest {
	return NewsRequest{
		Title:         m.Title,
		Content:       m.Content,
		PublishedDate: helper.FormatDate(m.PublishedDate),
	}
}

type UpdateNewsRequest struct {
	Title         helper.PatchField[string] `json:"title"`
	Content       helper.PatchField[string] `json:"content"`
	PublishedDate helper.PatchField[string] `json:"published_date"`
}

func (p *UpdateNewsRequest) Normalize() {
	for _, f := range []*helper.PatchField[string]{&p.Title, &p.Content, &p.PublishedDate} {
		if f.Present && f.Value != nil {
			v := helper.CleanText(*f.Value)
			f.Value = &v
		}
	}
}

func (p UpdateNewsRequest) ToUpdates() (map[string]any, error) {
	out := map[string]any{}
	for col, f := range map[string]helper.PatchField[string]{
		"title":          p.Title,
		"content":        p.Content,
		"published_date": p.PublishedDate,
	} {
		if !f.Present {
			continue
		}
		if f.Value == nil || *f.Value == "" {
			return nil, fmt.Errorf("%s is required", col)
		}
		out[col] = *f.Value
	}
	if raw, ok := out["published_date"].(string); ok {
		d, err := helper.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		out["published_date"] = d
	}
	return out, nil
}

type NewsResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PublishedDate string    `json:"published_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromModel(m *model.NewsModel) NewsResponse {
	return NewsResponse{
		ID:            m.ID,
		Title:         m.Title,
		Content:       m.Content,
		PublishedDate: helper.FormatDate(m.PublishedDate),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FromModels(rows []model.NewsModel) []NewsResponse {
	out := make([]NewsResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
