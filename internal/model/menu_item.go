package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem represents a product in the café catalog.
type MenuItem struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"size:1000"`
	Category    string          `json:"category" gorm:"size:100;not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"size:500"`
	Available   bool            `json:"available" gorm:"default:true;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
