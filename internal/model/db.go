package model

import "time"

// Order is the last snapshot of a PayPal order observed by this service.
// PayPal stays the source of truth for its state.
type Order struct {
	OrderID    string `gorm:"primaryKey;size:64;not null"` // paypal order id
	Intent     string `gorm:"size:16;not null"`            // CAPTURE, AUTHORIZE
	Status     string `gorm:"size:32;index;not null"`      // CREATED, APPROVED, COMPLETED, ...
	Sandbox    bool   `gorm:"not null"`
	ApproveURL string `gorm:"size:512"`
	Total      string `gorm:"size:32"` // empty when units use different currencies
	Currency   string `gorm:"size:8"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	PurchaseUnits []PurchaseUnit `gorm:"foreignKey:OrderID;references:OrderID"`
}

type PurchaseUnit struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.order_id
	OrderID      string `gorm:"size:64;index;not null"`
	Position     int    `gorm:"not null"`
	CurrencyCode string `gorm:"size:8;not null"`
	Value        string `gorm:"size:32;not null"`

	CreatedAt time.Time
}

type Capture struct {
	CaptureID string `gorm:"primaryKey;size:64;not null"` // paypal capture id
	// FK → order.order_id
	OrderID   string `gorm:"size:64;index;not null"`
	Status    string `gorm:"size:32;not null"`
	Amount    string `gorm:"size:32"`
	Currency  string `gorm:"size:8"`
	Final     bool
	CreatedAt time.Time
}
