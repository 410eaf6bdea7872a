package client

type Credentials struct {
	ClientID     string
	ClientSecret string
}

type Options struct {
	// IsSandbox selects the PayPal sandbox API instead of the live one.
	IsSandbox   bool
	Credentials Credentials
}

type Intent string

const (
	IntentCapture   Intent = "CAPTURE"
	IntentAuthorize Intent = "AUTHORIZE"
)

// OrderStatus is owned by PayPal; values outside this list are kept verbatim.
type OrderStatus string

const (
	OrderStatusCreated             OrderStatus = "CREATED"
	OrderStatusSaved               OrderStatus = "SAVED"
	OrderStatusApproved            OrderStatus = "APPROVED"
	OrderStatusVoided              OrderStatus = "VOIDED"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
	OrderStatusPayerActionRequired OrderStatus = "PAYER_ACTION_REQUIRED"
)

type Amount struct {
	// CurrencyCode is the three-character ISO-4217 code, e.g. "EUR".
	CurrencyCode string
	// Value is sent as-is; PayPal validates the decimal places per currency.
	Value string
}

type PurchaseUnit struct {
	Amount Amount
}

type CreateOrderOptions struct {
	Intent        Intent
	PurchaseUnits []PurchaseUnit

	// MockApplicationCode forces a PayPal negative-testing response, e.g.
	// "INTERNAL_SERVER_ERROR". Only honored in sandbox mode.
	MockApplicationCode string
}

type CaptureOrderOptions struct {
	OrderID string

	MockApplicationCode string
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type CreateOrderResponseData struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// ApproveURL is where the payer has to be redirected before the order can be captured.
func (d *CreateOrderResponseData) ApproveURL() string {
	if link, ok := LinkByRel(d.Links, "approve"); ok {
		return link.Href
	}
	if link, ok := LinkByRel(d.Links, "payer-action"); ok {
		return link.Href
	}
	return ""
}

type Payer struct {
	PayerID string `json:"payer_id"`
	Email   string `json:"email_address"`
}

type CaptureAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Capture struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	CreateTime string        `json:"create_time"`
	Final      bool          `json:"final_capture"`
	Amount     CaptureAmount `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type CapturedPurchaseUnit struct {
	ReferenceID string   `json:"reference_id"`
	Payments    Payments `json:"payments"`
}

type CaptureOrderResponseData struct {
	ID            string                 `json:"id"`
	Status        OrderStatus            `json:"status"`
	Links         []Link                 `json:"links"`
	Payer         *Payer                 `json:"payer,omitempty"`
	PurchaseUnits []CapturedPurchaseUnit `json:"purchase_units,omitempty"`
}

// PayerActionURL is set when Status is PAYER_ACTION_REQUIRED and the payment
// source supports a redirect (e.g. 3DS).
func (d *CaptureOrderResponseData) PayerActionURL() string {
	if link, ok := LinkByRel(d.Links, "payer-action"); ok {
		return link.Href
	}
	return ""
}

// Captures flattens the captures of every purchase unit.
func (d *CaptureOrderResponseData) Captures() []Capture {
	var captures []Capture
	for _, unit := range d.PurchaseUnits {
		captures = append(captures, unit.Payments.Captures...)
	}
	return captures
}

type FailureDetail struct {
	Field       string `json:"field,omitempty"`
	Value       string `json:"value,omitempty"`
	Location    string `json:"location,omitempty"`
	Issue       string `json:"issue"`
	Description string `json:"description"`
}

// FailureResponseData is the body of any non-2xx PayPal response.
// See https://developer.paypal.com/api/rest/responses/
type FailureResponseData struct {
	Name    string          `json:"name"`
	Message string          `json:"message"`
	DebugID string          `json:"debug_id"`
	Details []FailureDetail `json:"details"`
	Links   []Link          `json:"links"`

	// OAuth errors (401) use a different shape.
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Issue returns the first detail issue, e.g. "ORDER_NOT_APPROVED".
func (f *FailureResponseData) Issue() string {
	if len(f.Details) == 0 {
		return ""
	}
	return f.Details[0].Issue
}

func LinkByRel(links []Link, rel string) (Link, bool) {
	for _, link := range links {
		if link.Rel == rel {
			return link, true
		}
	}
	return Link{}, false
}

type createOrderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type createOrderPurchaseUnit struct {
	Amount createOrderAmount `json:"amount"`
}

type createOrderPayload struct {
	Intent        Intent                    `json:"intent"`
	PurchaseUnits []createOrderPurchaseUnit `json:"purchase_units"`
}

func newCreateOrderPayload(opts CreateOrderOptions) createOrderPayload {
	units := make([]createOrderPurchaseUnit, len(opts.PurchaseUnits))
	for i, unit := range opts.PurchaseUnits {
		units[i] = createOrderPurchaseUnit{
			Amount: createOrderAmount{
				CurrencyCode: unit.Amount.CurrencyCode,
				Value:        unit.Amount.Value,
			},
		}
	}

	return createOrderPayload{
		Intent:        opts.Intent,
		PurchaseUnits: units,
	}
}
