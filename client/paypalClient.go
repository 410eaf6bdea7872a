package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	SandboxBaseURL    = "https://api-m.sandbox.paypal.com"
	ProductionBaseURL = "https://api-m.paypal.com"
)

//go:generate mockgen -source=paypalClient.go -destination=mocks/mock_paypal_client.go -package=mocks

type PaypalClient interface {
	BaseURL() string
	GenerateAccessToken(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, opts CreateOrderOptions) (*Response[CreateOrderResponseData], error)
	CaptureOrder(ctx context.Context, opts CaptureOrderOptions) (*Response[CaptureOrderResponseData], error)
}

type Option func(*paypalClientImpl)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *paypalClientImpl) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *paypalClientImpl) {
		c.logger = logger
	}
}

type paypalClientImpl struct {
	httpClient         *http.Client
	logger             *zap.Logger
	isSandbox          bool
	baseApiURL         string
	paypalClientID     string
	paypalClientSecret string
}

// TokenError is returned when the OAuth endpoint answers with a non-2xx status.
type TokenError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("paypal token error %d: %s: %s", e.StatusCode, e.Code, e.Description)
}

func NewPaypalClient(opts Options, fns ...Option) PaypalClient {
	c := &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:             zap.NewNop(),
		isSandbox:          opts.IsSandbox,
		baseApiURL:         baseURLFor(opts.IsSandbox),
		paypalClientID:     opts.Credentials.ClientID,
		paypalClientSecret: opts.Credentials.ClientSecret,
	}

	for _, fn := range fns {
		fn(c)
	}

	return c
}

func baseURLFor(isSandbox bool) string {
	if isSandbox {
		return SandboxBaseURL
	}
	return ProductionBaseURL
}

func (c *paypalClientImpl) BaseURL() string {
	return c.baseApiURL
}

// GenerateAccessToken fetches a new client-credentials token. Tokens are not
// cached, every order call asks for a fresh one.
//
// A non-2xx answer from the token endpoint is returned as a *TokenError and
// the order call is not attempted, so an invalid credential never reaches
// the caller as an ok:false Response.
// See https://developer.paypal.com/api/rest/authentication/
func (c *paypalClientImpl) GenerateAccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.paypalClientID + ":" + c.paypalClientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	var res struct {
		AccessToken      string `json:"access_token"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response (status=%d): %w", resp.StatusCode, err)
	}

	if !isSuccess(resp.StatusCode) {
		return "", &TokenError{
			StatusCode:  resp.StatusCode,
			Code:        res.Error,
			Description: res.ErrorDescription,
		}
	}

	return res.AccessToken, nil
}

// CreateOrder creates a PayPal order. A non-2xx answer is not an error: it
// comes back as a Response with OK false.
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create
func (c *paypalClientImpl) CreateOrder(ctx context.Context, opts CreateOrderOptions) (*Response[CreateOrderResponseData], error) {
	accessToken, err := c.GenerateAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	body, err := json.Marshal(newCreateOrderPayload(opts))
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v2/checkout/orders",
		bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	c.setHeaders(req, accessToken, opts.MockApplicationCode)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal create order request failed: %w", err)
	}
	defer resp.Body.Close()

	result, err := decodeResponse[CreateOrderResponseData](resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("paypal create order",
		zap.Int("status_code", result.StatusCode),
		zap.Bool("ok", result.OK),
		zap.Int("purchase_units", len(opts.PurchaseUnits)),
	)

	return result, nil
}

// CaptureOrder captures payment for an order. The buyer has to approve the
// order first, otherwise PayPal answers 422 ORDER_NOT_APPROVED.
// See https://developer.paypal.com/docs/api/orders/v2/#orders_capture
func (c *paypalClientImpl) CaptureOrder(ctx context.Context, opts CaptureOrderOptions) (*Response[CaptureOrderResponseData], error) {
	accessToken, err := c.GenerateAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	captureURL := fmt.Sprintf(
		"%s/v2/checkout/orders/%s/capture",
		c.baseApiURL,
		url.PathEscape(opts.OrderID),
	)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		captureURL,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create capture request: %w", err)
	}
	c.setHeaders(req, accessToken, opts.MockApplicationCode)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal capture request failed: %w", err)
	}
	defer resp.Body.Close()

	result, err := decodeResponse[CaptureOrderResponseData](resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("paypal capture order",
		zap.String("order_id", opts.OrderID),
		zap.Int("status_code", result.StatusCode),
		zap.Bool("ok", result.OK),
	)

	return result, nil
}

func (c *paypalClientImpl) setHeaders(req *http.Request, accessToken, mockApplicationCode string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	if mockApplicationCode == "" {
		return
	}
	if !c.isSandbox {
		c.logger.Warn("ignoring paypal mock response outside sandbox",
			zap.String("mock_application_code", mockApplicationCode))
		return
	}

	// https://developer.paypal.com/tools/sandbox/negative-testing/request-headers/
	mock, _ := json.Marshal(map[string]string{
		"mock_application_codes": mockApplicationCode,
	})
	req.Header.Set("PayPal-Mock-Response", string(mock))
}
