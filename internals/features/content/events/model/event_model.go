package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kizuna_web/internals/store"
)

type EventModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:id" json:"id"`
	Title       string         `gorm:"type:text;not null;column:title" json:"title"`
	Description string         `gorm:"type:text;not null;column:description" json:"description"`
	Date        datatypes.Date `gorm:"type:date;not null;index:idx_events_date;column:date" json:"date"`
	Location    string         `gorm:"type:text;not null;column:location" json:"location"`
	CreatedAt   time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (EventModel) TableName() string { return "events" }

var Spec = store.Spec{
	Table:    "events",
	Sortable: []string{"date", "created_at", "title"},
}
