package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"paypal-utils/client"
	"paypal-utils/internal/dto"
	"paypal-utils/internal/model"
	"paypal-utils/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidIntent       = errors.New("intent must be CAPTURE or AUTHORIZE")
	ErrInvalidPurchaseUnit = errors.New("invalid purchase unit")
	// ErrPaypalRequest wraps failures that never produced a PayPal response.
	ErrPaypalRequest = errors.New("paypal request failed")
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

type PaypalService interface {
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*client.Response[client.CreateOrderResponseData], error)
	CaptureOrder(ctx context.Context, orderID string, req *dto.CaptureOrderRequest) (*client.Response[client.CaptureOrderResponseData], error)
	GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error)
}

type paypalServiceImpl struct {
	db           *gorm.DB
	logger       *zap.Logger
	paypalClient client.PaypalClient
	sandbox      bool
	orderRepo    repository.OrderRepository
	captureRepo  repository.CaptureRepository
}

func NewPaypalService(
	db *gorm.DB,
	logger *zap.Logger,
	paypalClient client.PaypalClient,
	sandbox bool,
	orderRepo repository.OrderRepository,
	captureRepo repository.CaptureRepository,
) PaypalService {
	return &paypalServiceImpl{
		db:           db,
		logger:       logger,
		paypalClient: paypalClient,
		sandbox:      sandbox,
		orderRepo:    orderRepo,
		captureRepo:  captureRepo,
	}
}

func (s *paypalServiceImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*client.Response[client.CreateOrderResponseData], error) {
	intent := client.Intent(strings.ToUpper(req.Intent))
	if intent != client.IntentCapture && intent != client.IntentAuthorize {
		return nil, ErrInvalidIntent
	}

	total, currency, err := validatePurchaseUnits(req.PurchaseUnits)
	if err != nil {
		return nil, err
	}

	units := make([]client.PurchaseUnit, len(req.PurchaseUnits))
	for i, unit := range req.PurchaseUnits {
		units[i] = client.PurchaseUnit{
			Amount: client.Amount{
				CurrencyCode: unit.Amount.CurrencyCode,
				Value:        unit.Amount.Value,
			},
		}
	}

	resp, err := s.paypalClient.CreateOrder(ctx, client.CreateOrderOptions{
		Intent:              intent,
		PurchaseUnits:       units,
		MockApplicationCode: req.MockApplicationCode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrPaypalRequest, err)
	}

	if !resp.OK {
		s.logger.Info("paypal rejected order",
			zap.Int("status_code", resp.StatusCode),
			zap.String("name", resp.Failure.Name),
			zap.String("issue", resp.Failure.Issue()),
			zap.String("debug_id", resp.Failure.DebugID),
		)
		return resp, nil
	}

	// the order exists at paypal now, a failed snapshot must not hide it
	if err := s.storeOrder(ctx, intent, total, currency, req.PurchaseUnits, resp.Data); err != nil {
		s.logger.Error("store paypal order",
			zap.String("order_id", resp.Data.ID),
			zap.Error(err),
		)
		return resp, nil
	}

	s.logger.Info("paypal order created",
		zap.String("order_id", resp.Data.ID),
		zap.String("status", resp.Data.Status),
	)

	return resp, nil
}

func (s *paypalServiceImpl) storeOrder(
	ctx context.Context,
	intent client.Intent,
	total, currency string,
	units []*dto.PurchaseUnit,
	data *client.CreateOrderResponseData,
) error {
	purchaseUnits := make([]model.PurchaseUnit, len(units))
	for i, unit := range units {
		purchaseUnits[i] = model.PurchaseUnit{
			OrderID:      data.ID,
			Position:     i,
			CurrencyCode: unit.Amount.CurrencyCode,
			Value:        unit.Amount.Value,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.Create(ctx, tx, &model.Order{
			OrderID:       data.ID,
			Intent:        string(intent),
			Status:        data.Status,
			Sandbox:       s.sandbox,
			ApproveURL:    data.ApproveURL(),
			Total:         total,
			Currency:      currency,
			PurchaseUnits: purchaseUnits,
		})
	})
	if err != nil {
		return fmt.Errorf("store order in db: %w", err)
	}
	return nil
}

func (s *paypalServiceImpl) CaptureOrder(ctx context.Context, orderID string, req *dto.CaptureOrderRequest) (*client.Response[client.CaptureOrderResponseData], error) {
	resp, err := s.paypalClient.CaptureOrder(ctx, client.CaptureOrderOptions{
		OrderID:             orderID,
		MockApplicationCode: req.MockApplicationCode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: capture order: %w", ErrPaypalRequest, err)
	}

	if !resp.OK {
		s.logger.Info("paypal rejected capture",
			zap.String("order_id", orderID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("issue", resp.Failure.Issue()),
			zap.String("debug_id", resp.Failure.DebugID),
		)
		return resp, nil
	}

	newCaptures, err := s.recordCapture(ctx, orderID, resp.Data)
	if err != nil {
		// paypal already moved the money, the caller still gets its answer
		s.logger.Error("record paypal capture",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return resp, nil
	}

	s.logger.Info("paypal order captured",
		zap.String("order_id", orderID),
		zap.String("status", string(resp.Data.Status)),
		zap.Int("new_captures", newCaptures),
	)

	return resp, nil
}

// recordCapture stores the new status and any capture not seen before. It
// returns how many captures were stored.
func (s *paypalServiceImpl) recordCapture(ctx context.Context, orderID string, data *client.CaptureOrderResponseData) (int, error) {
	var captures []*model.Capture
	for _, c := range data.Captures() {
		exists, err := s.captureRepo.Exists(ctx, c.ID)
		if err != nil {
			return 0, fmt.Errorf("check capture exists: %w", err)
		}
		if exists {
			continue
		}

		captures = append(captures, &model.Capture{
			CaptureID: c.ID,
			OrderID:   orderID,
			Status:    c.Status,
			Amount:    c.Amount.Value,
			Currency:  c.Amount.CurrencyCode,
			Final:     c.Final,
		})
	}

	stored := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		known, err := s.orderRepo.UpdateStatus(ctx, tx, orderID, string(data.Status))
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if !known {
			// created outside this service, nothing to attach captures to
			return nil
		}

		for _, capture := range captures {
			if err := s.captureRepo.Create(ctx, tx, capture); err != nil {
				return fmt.Errorf("store capture: %w", err)
			}
		}
		stored = len(captures)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return stored, nil
}

func (s *paypalServiceImpl) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	captures, err := s.captureRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}

	res := &dto.OrderResponse{
		OrderID:       order.OrderID,
		Intent:        order.Intent,
		Status:        order.Status,
		Sandbox:       order.Sandbox,
		ApproveURL:    order.ApproveURL,
		Total:         order.Total,
		Currency:      order.Currency,
		PurchaseUnits: make([]*dto.PurchaseUnit, len(order.PurchaseUnits)),
		Captures:      make([]*dto.Capture, len(captures)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for i, unit := range order.PurchaseUnits {
		res.PurchaseUnits[i] = &dto.PurchaseUnit{
			Amount: dto.Amount{CurrencyCode: unit.CurrencyCode, Value: unit.Value},
		}
	}
	for i, c := range captures {
		res.Captures[i] = &dto.Capture{
			CaptureID: c.CaptureID,
			Status:    c.Status,
			Amount:    c.Amount,
			Currency:  c.Currency,
			Final:     c.Final,
		}
	}

	return res, nil
}

// validatePurchaseUnits returns the order total when every unit uses the
// same currency.
func validatePurchaseUnits(units []*dto.PurchaseUnit) (string, string, error) {
	if len(units) == 0 {
		return "", "", fmt.Errorf("%w: at least one purchase unit is required", ErrInvalidPurchaseUnit)
	}

	total := decimal.Zero
	currency := ""
	for i, unit := range units {
		if unit == nil {
			return "", "", fmt.Errorf("%w: unit %d is empty", ErrInvalidPurchaseUnit, i)
		}
		if !currencyCodeRe.MatchString(unit.Amount.CurrencyCode) {
			return "", "", fmt.Errorf("%w: unit %d: currency_code %q", ErrInvalidPurchaseUnit, i, unit.Amount.CurrencyCode)
		}

		value, err := decimal.NewFromString(unit.Amount.Value)
		if err != nil || !value.IsPositive() {
			return "", "", fmt.Errorf("%w: unit %d: value %q", ErrInvalidPurchaseUnit, i, unit.Amount.Value)
		}

		switch {
		case i == 0:
			currency = unit.Amount.CurrencyCode
		case currency != unit.Amount.CurrencyCode:
			currency = ""
		}
		total = total.Add(value)
	}

	if currency == "" {
		return "", "", nil
	}

	return total.String(), currency, nil
}
