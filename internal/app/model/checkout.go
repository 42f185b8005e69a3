package model

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus of a checkout session
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// CheckoutSession freezes the cart contents and shipping address at checkout
// time. The live cart can keep changing afterwards; the session items are the
// ones that get paid for and turned into an order. A session can be finalized
// at most once.
type CheckoutSession struct {
	ID     uint  `gorm:"primarykey" json:"id"`
	UserID uint  `gorm:"not null;index" json:"user_id"`
	CartID uint  `gorm:"not null" json:"cart_id"`

	// Shipping address, all fields mandatory at creation
	FirstName  string `gorm:"not null" json:"first_name"`
	LastName   string `gorm:"not null" json:"last_name"`
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country    string `gorm:"not null" json:"country"`
	Phone      string `gorm:"type:varchar(30);not null" json:"phone"`

	TotalPrice     float64       `gorm:"not null" json:"total_price"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	GatewayOrderID string        `gorm:"type:varchar(64);index" json:"gateway_order_id,omitempty"`
	PaymentRef     string        `gorm:"type:varchar(64)" json:"payment_ref,omitempty"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`

	IsFinalized bool  `gorm:"not null;default:false" json:"is_finalized"`
	OrderID     *uint `gorm:"index" json:"order_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CheckoutItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"items"`
}

func (CheckoutSession) TableName() string {
	return "checkout_sessions"
}

// IsPaid reports whether the gateway confirmed payment for this session
func (s *CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// IsOpen reports whether the session can still be paid and finalized
func (s *CheckoutSession) IsOpen() bool {
	return !s.IsFinalized
}

// CheckoutItem is a frozen copy of a cart line at checkout time
type CheckoutItem struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	SessionID uint    `gorm:"not null;index" json:"-"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Image     string  `json:"image"`
	Price     float64 `gorm:"not null" json:"price"`
	Size      string  `gorm:"type:varchar(20);not null" json:"size"`
	Color     string  `gorm:"type:varchar(30);not null" json:"color"`
	Quantity  int     `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CheckoutItem) TableName() string {
	return "checkout_items"
}
