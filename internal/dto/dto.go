package dto

import "time"

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PurchaseUnit struct {
	Amount Amount `json:"amount"`
}

type CreateOrderRequest struct {
	Intent        string          `json:"intent"`
	PurchaseUnits []*PurchaseUnit `json:"purchase_units"`
	// sandbox only, e.g. "INTERNAL_SERVER_ERROR"
	MockApplicationCode string `json:"mock_application_code"`
}

type CaptureOrderRequest struct {
	MockApplicationCode string `json:"mock_application_code"`
}

type Capture struct {
	CaptureID string `json:"capture_id"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Final     bool   `json:"final"`
}

type OrderResponse struct {
	OrderID       string          `json:"order_id"`
	Intent        string          `json:"intent"`
	Status        string          `json:"status"`
	Sandbox       bool            `json:"sandbox"`
	ApproveURL    string          `json:"approve_url,omitempty"`
	Total         string          `json:"total,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	PurchaseUnits []*PurchaseUnit `json:"purchase_units"`
	Captures      []*Capture      `json:"captures"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
