package model

import (
	"time"

	"github.com/google/uuid"

	"kizuna_web/internals/store"
)

type JobModel struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:id" json:"id"`
	Title          string    `gorm:"type:text;not null;column:title" json:"title"`
	Company        *string   `gorm:"type:text;column:company" json:"company,omitempty"`
	Location       *string   `gorm:"type:text;column:location" json:"location,omitempty"`
	EmploymentType *string   `gorm:"type:text;column:employment_type" json:"employment_type,omitempty"`
	Description    *string   `gorm:"type:text;column:description" json:"description,omitempty"`

	// The three PDF columns are set and cleared together.
	PDFURL        *string `gorm:"type:text;column:pdf_url" json:"pdf_url,omitempty"`
	PDFFilename   *string `gorm:"type:text;column:pdf_filename" json:"pdf_filename,omitempty"`
	PDFStorageKey *string `gorm:"type:text;column:pdf_storage_key" json:"-"`

	// The DB default comes from ColumnDefaults. A gorm default tag would make
	// GORM replace an explicit false with true on insert.
	IsActive  bool      `gorm:"not null;index:idx_jobs_active_created,priority:1;column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;index:idx_jobs_active_created,priority:2,sort:desc;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (JobModel) TableName() string { return "jobs" }

// ColumnDefaults is applied by the migration after AutoMigrate. Rows written
// outside the app start out active.
func (JobModel) ColumnDefaults() map[string]string {
	return map[string]string{"is_active": "true"}
}

func (j *JobModel) HasPDF() bool { return j.PDFURL != nil && *j.PDFURL != "" }

var Spec = store.Spec{
	Table:      "jobs",
	Sortable:   []string{"created_at", "title"},
	Filterable: []string{"is_active"},
}

/* ===============================
   Employment type
=================================*/

type EmploymentType struct {
	Value string
	Label string
}

var EmploymentTypes = []EmploymentType{
	{"full_time", "正社員"},
	{"contract", "契約社員"},
	{"part_time", "アルバイト・パート"},
	{"temp_staffing", "派遣"},
	{"subcontract", "業務委託"},
}

// EmploymentLabel returns the Japanese label, or the raw value for anything unknown.
func EmploymentLabel(v string) string {
	for _, et := range EmploymentTypes {
		if et.Value == v {
			return et.Label
		}
	}
	return v
}
