package dto

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"kizuna_web/internals/features/content/jobs/model"
	helper "kizuna_web/internals/helpers"
)

/* =========================================================
   CREATE / FULL EDIT
   ========================================================= */

type JobRequest struct {
	Title          string  `json:"title" form:"title" validate:"required"`
	Company        *string `json:"company" form:"company"`
	Location       *string `json:"location" form:"location"`
	EmploymentType *string `json:"employment_type" form:"employment_type" validate:"omitempty,oneof=full_time contract part_time temp_staffing subcontract"`
	Description    *string `json:"description" form:"description"`
	IsActive       *bool   `json:"is_active" form:"is_active"`
}

func (r *JobRequest) Normalize() {
	r.Title = helper.CleanText(r.Title)
	r.Company = helper.CleanOptional(r.Company)
	r.Location = helper.CleanOptional(r.Location)
	r.EmploymentType = helper.CleanOptional(r.EmploymentType)
	r.Description = helper.CleanOptional(r.Description)
}

// Active resolves is_active. An HTML checkbox is simply absent when
// unchecked, so form callers pass false as the fallback and JSON callers true.
func (r JobRequest) Active(fallback bool) bool {
	if r.IsActive == nil {
		return fallback
	}
	return *r.IsActive
}

func (r JobRequest) ToModel(activeFallback bool) *model.JobModel {
	return &model.JobModel{
		Title:          r.Title,
		Company:        r.Company,
		Location:       r.Location,
		EmploymentType: r.EmploymentType,
		Description:    r.Description,
		IsActive:       r.Active(activeFallback),
	}
}

func (r JobRequest) ToUpdates(activeFallback bool) map[string]any {
	return map[string]any{
		"title":           r.Title,
		"company":         r.Company,
		"location":        r.Location,
		"employment_type": r.EmploymentType,
		"description":     r.Description,
		"is_active":       r.Active(activeFallback),
	}
}

func FormFromModel(m *model.JobModel) JobRequest {
	active := m.IsActive
	return JobRequest{
		Title:          m.Title,
		Company:        m.Company,
		Location:       m.Location,
		EmploymentType: m.EmploymentType,
		Description:    m.Description,
		IsActive:       &active,
	}
}

/* =========================================================
   PATCH (JSON API): tri-state
   ========================================================= */

type UpdateJobRequest struct {
	Title          helper.PatchField[string] `json:"title"`
	Company        helper.PatchField[string] `json:"company"`
	Location       helper.PatchField[string] `json:"location"`
	EmploymentType helper.PatchField[string] `json:"employment_type"`
	Description    helper.PatchField[string] `json:"description"`
	IsActive       helper.PatchField[bool]   `json:"is_active"`
}

func (p *UpdateJobRequest) Normalize() {
	if p.Title.Present && p.Title.Value != nil {
		v := helper.CleanText(*p.Title.Value)
		p.Title.Value = &v
	}
	for _, f := range []*helper.PatchField[string]{&p.Company, &p.Location, &p.EmploymentType, &p.Description} {
		if f.Present {
			f.Value = helper.CleanOptional(f.Value)
		}
	}
}

func (p UpdateJobRequest) ToUpdates() (map[string]any, error) {
	out := map[string]any{}
	if p.Title.Present {
		if p.Title.Value == nil || *p.Title.Value == "" {
			return nil, fmt.Errorf("title is required")
		}
		out["title"] = *p.Title.Value
	}
	optional := []struct {
		col string
		f   helper.PatchField[string]
	}{
		{"company", p.Company},
		{"location", p.Location},
		{"employment_type", p.EmploymentType},
		{"description", p.Description},
	}
	for _, o := range optional {
		if o.f.Present {
			out[o.col] = o.f.Value
		}
	}
	if v, ok := out["employment_type"].(*string); ok && v != nil && !IsEmploymentType(*v) {
		return nil, fmt.Errorf("employment_type must be one of full_time, contract, part_time, temp_staffing, subcontract")
	}
	if p.IsActive.Present {
		if p.IsActive.Value == nil {
			return nil, fmt.Errorf("is_active cannot be null")
		}
		out["is_active"] = *p.IsActive.Value
	}
	return out, nil
}

func IsEmploymentType(v string) bool {
	return slices.ContainsFunc(model.EmploymentTypes, func(et model.EmploymentType) bool { return et.Value == v })
}

/* =========================================================
   RESPONSE
   ========================================================= */

type JobResponse struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Company             *string   `json:"company"`
	Location            *string   `json:"location"`
	EmploymentType      *string   `json:"employment_type"`
	EmploymentTypeLabel *string   `json:"employment_type_label"`
	Description         *string   `json:"description"`
	PDFURL              *string   `json:"pdf_url"`
	PDFFilename         *string   `json:"pdf_filename"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func FromModel(m *model.JobModel) JobResponse {
	resp := JobResponse{
		ID:             m.ID,
		Title:          m.Title,
		Company:        m.Company,
		Location:       m.Location,
		EmploymentType: m.EmploymentType,
		Description:    m.Description,
		PDFURL:         m.PDFURL,
		PDFFilename:    m.PDFFilename,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.EmploymentType != nil {
		label := model.EmploymentLabel(*m.EmploymentType)
		resp.EmploymentTypeLabel = &label
	}
	return resp
}

func FromModels(rows []model.JobModel) []JobResponse {
	out := make([]JobResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
