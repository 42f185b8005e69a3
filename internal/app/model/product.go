package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Image       string         `json:"image"`
	Category    string         `gorm:"type:varchar(50);index" json:"category"`
	Gender      string         `gorm:"type:varchar(20)" json:"gender,omitempty"`
	// Comma-separated option lists; a cart line must pick one of each.
	Sizes     string         `gorm:"type:text" json:"sizes"`
	Colors    string         `gorm:"type:text" json:"colors"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// HasSize reports whether size is one of the product's admissible sizes.
// Products with no size list accept any value.
func (p *Product) HasSize(size string) bool {
	return hasOption(p.Sizes, size)
}

// HasColor reports whether color is one of the product's admissible colors
func (p *Product) HasColor(color string) bool {
	return hasOption(p.Colors, color)
}

func hasOption(list, value string) bool {
	if list == "" {
		return true
	}
	for _, opt := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(opt), value) {
			return true
		}
	}
	return false
}
