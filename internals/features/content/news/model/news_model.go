package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kizuna_web/internals/store"
)

type NewsModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:id" json:"id"`
	Title         string         `gorm:"type:text;not null;column:title" json:"title"`
	Content       string         `gorm:"type:text;not null;column:content" json:"content"`
	PublishedDate datatypes.Date `gorm:"type:date;not null;index:idx_news_published_date;column:published_date" json:"published_date"`
	CreatedAt     time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (NewsModel) TableName() string { return "news" }

var Spec = store.Spec{
	Table:    "news",
	Sortable: []string{"published_date", "created_at", "title"},
}
