package model

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus of a placed order
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is the durable record produced by finalizing a paid checkout
// session. Each session produces at most one order.
type Order struct {
	ID        uint `gorm:"primarykey" json:"id"`
	UserID    uint `gorm:"not null;index" json:"user_id"`
	SessionID uint `gorm:"not null;uniqueIndex" json:"session_id"`

	FirstName  string `gorm:"not null" json:"first_name"`
	LastName   string `gorm:"not null" json:"last_name"`
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country    string `gorm:"not null" json:"country"`
	Phone      string `gorm:"type:varchar(30);not null" json:"phone"`

	TotalPrice float64     `gorm:"not null" json:"total_price"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'processing'" json:"status"`
	IsPaid     bool        `gorm:"not null;default:false" json:"is_paid"`
	PaidAt     *time.Time  `json:"paid_at,omitempty"`
	PaymentRef string      `gorm:"type:varchar(64)" json:"payment_ref,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one purchased line, copied from the checkout session
type OrderItem struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"-"`
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

func (OrderItem) TableName() string {
	return "order_items"
}
