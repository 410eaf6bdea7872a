package handler

import (
	"errors"
	"io"
	"net/http"

	"paypal-utils/internal/dto"
	"paypal-utils/internal/service"

	"github.com/labstack/echo/v4"
)

type PaypalHandler struct {
	paypalService service.PaypalService
}

func NewPaypalHandler(paypalService service.PaypalService) *PaypalHandler {
	return &PaypalHandler{
		paypalService: paypalService,
	}
}

func (h *PaypalHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.paypalService.CreateOrder(ctx, &req)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(resp.StatusCode, resp)
}

func (h *PaypalHandler) CaptureOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order id")
	}

	// body is optional, chunked requests may still send an empty one
	var req dto.CaptureOrderRequest
	if err := c.Bind(&req); err != nil && !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.paypalService.CaptureOrder(ctx, orderID, &req)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(resp.StatusCode, resp)
}

func (h *PaypalHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.paypalService.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidIntent), errors.Is(err, service.ErrInvalidPurchaseUnit):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPaypalRequest):
		return echo.NewHTTPError(http.StatusBadGateway, service.ErrPaypalRequest.Error()).SetInternal(err)
	default:
		return err
	}
}
