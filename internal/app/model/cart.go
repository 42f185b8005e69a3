package model

import (
	"time"

	"gorm.io/gorm"
)

// Cart is owned by exactly one identity: an authenticated user (UserID set)
// or an anonymous guest (GuestID set). Ownership changes only through the
// merge protocol, which folds a guest cart into a user cart.
type Cart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id,omitempty"`
	GuestID   string         `gorm:"type:varchar(64);index" json:"guest_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Lines []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"lines"`
}

func (Cart) TableName() string {
	return "carts"
}

// TotalPrice is derived, never stored: sum of price*quantity over all lines
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// CartLine is one entry in a cart. Name, image and price are snapshotted
// from the product at add time. Lines are unique per
// (cart, product, size, color); adding the same combination again increments
// the quantity instead.
type CartLine struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CartID    uint           `gorm:"not null;index:idx_cart_line_key,unique" json:"-"`
	ProductID uint           `gorm:"not null;index:idx_cart_line_key,unique" json:"product_id"`
	Name      string         `gorm:"not null" json:"name"`
	Image     string         `json:"image"`
	Price     float64        `gorm:"not null" json:"price"`
	Size      string         `gorm:"type:varchar(20);not null;index:idx_cart_line_key,unique" json:"size"`
	Color     string         `gorm:"type:varchar(30);not null;index:idx_cart_line_key,unique" json:"color"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// No soft delete: a deleted line must release its spot in the unique
	// line-key index so the combination can be added again
	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

// MatchesKey reports whether the line carries the given line key
func (l *CartLine) MatchesKey(productID uint, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}
