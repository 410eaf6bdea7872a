package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaypal struct {
	server      *httptest.Server
	tokenCalls  atomic.Int32
	orderCalls  atomic.Int32
	lastBody    []byte
	lastHeaders http.Header
	lastPath    string

	tokenStatus int
	tokenBody   string
	status      int
	body        string
}

func newFakePaypal(t *testing.T) *fakePaypal {
	t.Helper()

	f := &fakePaypal{
		tokenStatus: http.StatusOK,
		tokenBody:   `{"access_token":"A21AA-token","token_type":"Bearer","expires_in":32400}`,
		status:      http.StatusCreated,
		body:        `{"id":"5O190127TN364715T","status":"CREATED","links":[{"href":"https://www.sandbox.paypal.com/checkoutnow?token=5O190127TN364715T","rel":"approve","method":"GET"}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		f.lastHeaders = r.Header.Clone()
		f.lastBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(f.tokenStatus)
		_, _ = io.WriteString(w, f.tokenBody)
	})
	mux.HandleFunc("/v2/checkout/orders", f.handleOrder)
	mux.HandleFunc("/v2/checkout/orders/", f.handleOrder)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakePaypal) handleOrder(w http.ResponseWriter, r *http.Request) {
	f.orderCalls.Add(1)
	f.lastHeaders = r.Header.Clone()
	f.lastBody, _ = io.ReadAll(r.Body)
	f.lastPath = r.URL.EscapedPath()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakePaypal) client(isSandbox bool) *paypalClientImpl {
	c := NewPaypalClient(Options{
		IsSandbox: isSandbox,
		Credentials: Credentials{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		},
	}).(*paypalClientImpl)
	c.baseApiURL = f.server.URL
	return c
}

func TestNewPaypalClient_BaseURL(t *testing.T) {
	sandbox := NewPaypalClient(Options{IsSandbox: true})
	live := NewPaypalClient(Options{IsSandbox: false})

	assert.Equal(t, "https://api-m.sandbox.paypal.com", sandbox.BaseURL())
	assert.Equal(t, "https://api-m.paypal.com", live.BaseURL())

	// same flag, same url
	assert.Equal(t, sandbox.BaseURL(), NewPaypalClient(Options{IsSandbox: true, Credentials: Credentials{ClientID: "other"}}).BaseURL())
}

func TestGenerateAccessToken(t *testing.T) {
	f := newFakePaypal(t)

	token, err := f.client(true).GenerateAccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "A21AA-token", token)
	assert.Equal(t, "grant_type=client_credentials", string(f.lastBody))
	assert.Equal(t, "application/x-www-form-urlencoded", f.lastHeaders.Get("Content-Type"))

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
	assert.Equal(t, want, f.lastHeaders.Get("Authorization"))
}

func TestGenerateAccessToken_Failure(t *testing.T) {
	t.Run("oauth error", func(t *testing.T) {
		f := newFakePaypal(t)
		f.tokenStatus = http.StatusUnauthorized
		f.tokenBody = `{"error":"invalid_client","error_description":"Client Authentication failed"}`

		_, err := f.client(true).GenerateAccessToken(context.Background())

		var tokenErr *TokenError
		require.ErrorAs(t, err, &tokenErr)
		assert.Equal(t, http.StatusUnauthorized, tokenErr.StatusCode)
		assert.Equal(t, "invalid_client", tokenErr.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newFakePaypal(t)
		f.tokenBody = `<html>`

		_, err := f.client(true).GenerateAccessToken(context.Background())
		require.Error(t, err)
	})
}

func TestCreateOrder(t *testing.T) {
	f := newFakePaypal(t)

	res, err := f.client(true).CreateOrder(context.Background(), CreateOrderOptions{
		Intent: IntentCapture,
		PurchaseUnits: []PurchaseUnit{
			{Amount: Amount{CurrencyCode: "EUR", Value: "1"}},
		},
	})
	require.NoError(t, err)

	require.True(t, res.OK)
	require.NotNil(t, res.Data)
	assert.Nil(t, res.Failure)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "5O190127TN364715T", res.Data.ID)
	assert.Equal(t, "CREATED", res.Data.Status)
	assert.Equal(t, "https://www.sandbox.paypal.com/checkoutnow?token=5O190127TN364715T", res.Data.ApproveURL())

	assert.Equal(t, "/v2/checkout/orders", f.lastPath)
	assert.Equal(t, "Bearer A21AA-token", f.lastHeaders.Get("Authorization"))
	assert.Equal(t, "application/json", f.lastHeaders.Get("Content-Type"))
	assert.JSONEq(t, `{"intent":"CAPTURE","purchase_units":[{"amount":{"currency_code":"EUR","value":"1"}}]}`, string(f.lastBody))
}

func TestCreateOrder_PurchaseUnitsPreserved(t *testing.T) {
	units := []PurchaseUnit{
		{Amount: Amount{CurrencyCode: "USD", Value: "100.00"}},
		{Amount: Amount{CurrencyCode: "JPY", Value: "500"}},
		{Amount: Amount{CurrencyCode: "TND", Value: "1.005"}},
		{Amount: Amount{CurrencyCode: "eur", Value: "not-a-number"}},
	}

	for n := 0; n <= len(units); n++ {
		f := newFakePaypal(t)

		_, err := f.client(true).CreateOrder(context.Background(), CreateOrderOptions{
			Intent:        IntentAuthorize,
			PurchaseUnits: units[:n],
		})
		require.NoError(t, err)

		var sent struct {
			Intent        string `json:"intent"`
			PurchaseUnits []struct {
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"purchase_units"`
		}
		require.NoError(t, json.Unmarshal(f.lastBody, &sent))

		assert.Equal(t, "AUTHORIZE", sent.Intent)
		require.Len(t, sent.PurchaseUnits, n)
		for i := 0; i < n; i++ {
			assert.Equal(t, units[i].Amount.CurrencyCode, sent.PurchaseUnits[i].Amount.CurrencyCode)
			assert.Equal(t, units[i].Amount.Value, sent.PurchaseUnits[i].Amount.Value)
		}
	}
}

func TestCreateOrder_FailureResponse(t *testing.T) {
	f := newFakePaypal(t)
	f.status = http.StatusUnprocessableEntity
	f.body = `{
		"name": "UNPROCESSABLE_ENTITY",
		"details": [{"field": "/purchase_units/@reference_id=='default'/amount/currency_code", "issue": "CURRENCY_NOT_SUPPORTED", "description": "Currency code is not currently supported."}],
		"message": "The requested action could not be performed.",
		"debug_id": "b3a36d1d4d3b2",
		"links": [{"href": "https://developer.paypal.com/docs/api/orders/v2/#error-CURRENCY_NOT_SUPPORTED", "rel": "information_link", "method": "GET"}]
	}`

	res, err := f.client(true).CreateOrder(context.Background(), CreateOrderOptions{
		Intent:        IntentCapture,
		PurchaseUnits: []PurchaseUnit{{Amount: Amount{CurrencyCode: "XXX", Value: "1"}}},
	})
	require.NoError(t, err)

	require.False(t, res.OK)
	assert.Nil(t, res.Data)
	require.NotNil(t, res.Failure)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", res.Failure.Name)
	assert.Equal(t, "b3a36d1d4d3b2", res.Failure.DebugID)
	assert.Equal(t, "CURRENCY_NOT_SUPPORTED", res.Failure.Issue())
	require.Len(t, res.Failure.Links, 1)
	assert.Equal(t, "information_link", res.Failure.Links[0].Rel)
}

func TestCreateOrder_OKFollowsStatusClass(t *testing.T) {
	cases := map[int]bool{
		http.StatusOK:                  true,
		http.StatusCreated:             true,
		http.StatusMultipleChoices:     false,
		http.StatusBadRequest:          false,
		http.StatusForbidden:           false,
		http.StatusInternalServerError: false,
	}

	for status, ok := range cases {
		f := newFakePaypal(t)
		f.status = status
		f.body = `{"id":"X","name":"ERR"}`

		res, err := f.client(true).CreateOrder(context.Background(), CreateOrderOptions{Intent: IntentCapture})
		require.NoError(t, err)
		assert.Equal(t, ok, res.OK, "status %d", status)
		assert.Equal(t, ok, res.Data != nil, "status %d", status)
		assert.Equal(t, !ok, res.Failure != nil, "status %d", status)
	}
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	f := newFakePaypal(t)
	f.status = http.StatusBadGateway
	f.body = `<html>bad gateway</html>`

	res, err := f.client(true).CreateOrder(context.Background(), CreateOrderOptions{Intent: IntentCapture})
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestCreateOrder_TransportFailure(t *testing.T) {
	f := newFakePaypal(t)
	c := f.client(true)
	f.server.Close()

	res, err := c.CreateOrder(context.Background(), CreateOrderOptions{Intent: IntentCapture})
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestCreateOrder_TokenFailureSkipsOrder(t *testing.T) {
	f := newFakePaypal(t)
	f.tokenStatus = http.StatusUnauthorized
	f.tokenBody = `{"error":"invalid_client","error_description":"Client Authentication failed"}`

	_, err := f.client(true).CreateOrder(context.Background(), CreateOrderOptions{Intent: IntentCapture})

	var tokenErr *TokenError
	require.ErrorAs(t, err, &tokenErr)
	assert.EqualValues(t, 0, f.orderCalls.Load())
}

func TestCaptureOrder(t *testing.T) {
	f := newFakePaypal(t)
	f.body = `{
		"id": "5O190127TN364715T",
		"status": "COMPLETED",
		"payer": {"payer_id": "QYR5Z8XDVJNXQ", "email_address": "buyer@example.com"},
		"purchase_units": [{
			"reference_id": "default",
			"payments": {"captures": [{"id": "3C679366HH908993F", "status": "COMPLETED", "final_capture": true, "amount": {"currency_code": "EUR", "value": "1.00"}}]}
		}],
		"links": [{"href": "https://api-m.sandbox.paypal.com/v2/checkout/orders/5O190127TN364715T", "rel": "self", "method": "GET"}]
	}`

	res, err := f.client(true).CaptureOrder(context.Background(), CaptureOrderOptions{OrderID: "5O190127TN364715T"})
	require.NoError(t, err)

	require.True(t, res.OK)
	assert.Equal(t, OrderStatusCompleted, res.Data.Status)
	assert.Equal(t, "QYR5Z8XDVJNXQ", res.Data.Payer.PayerID)

	captures := res.Data.Captures()
	require.Len(t, captures, 1)
	assert.Equal(t, "3C679366HH908993F", captures[0].ID)
	assert.True(t, captures[0].Final)
	assert.Equal(t, "1.00", captures[0].Amount.Value)

	assert.Equal(t, "/v2/checkout/orders/5O190127TN364715T/capture", f.lastPath)
	assert.Equal(t, "Bearer A21AA-token", f.lastHeaders.Get("Authorization"))
	assert.Empty(t, f.lastBody)
}

func TestCaptureOrder_NotApproved(t *testing.T) {
	f := newFakePaypal(t)
	f.status = http.StatusUnprocessableEntity
	f.body = `{"name":"UNPROCESSABLE_ENTITY","details":[{"issue":"ORDER_NOT_APPROVED","description":"Payer has not yet approved the Order for payment."}],"message":"The requested action could not be performed.","debug_id":"f2b3c4","links":[]}`

	res, err := f.client(true).CaptureOrder(context.Background(), CaptureOrderOptions{OrderID: "5O190127TN364715T"})
	require.NoError(t, err)

	require.False(t, res.OK)
	assert.Equal(t, "ORDER_NOT_APPROVED", res.Failure.Issue())
}

func TestCaptureOrder_EscapesOrderID(t *testing.T) {
	f := newFakePaypal(t)
	f.body = `{"id":"a/b","status":"COMPLETED","links":[]}`

	_, err := f.client(true).CaptureOrder(context.Background(), CaptureOrderOptions{OrderID: "a/b"})
	require.NoError(t, err)
	assert.Equal(t, "/v2/checkout/orders/a%2Fb/capture", f.lastPath)
}

func TestCaptureOrder_PayerActionRequired(t *testing.T) {
	f := newFakePaypal(t)
	f.status = http.StatusOK
	f.body = `{"id":"8X","status":"PAYER_ACTION_REQUIRED","links":[{"href":"https://www.sandbox.paypal.com/webapps/helios?action=authenticate","rel":"payer-action","method":"GET"}]}`

	res, err := f.client(true).CaptureOrder(context.Background(), CaptureOrderOptions{OrderID: "8X"})
	require.NoError(t, err)

	require.True(t, res.OK)
	assert.Equal(t, OrderStatusPayerActionRequired, res.Data.Status)
	assert.Equal(t, "https://www.sandbox.paypal.com/webapps/helios?action=authenticate", res.Data.PayerActionURL())
}

func TestOneTokenPerCall(t *testing.T) {
	f := newFakePaypal(t)
	c := f.client(true)
	ctx := context.Background()

	_, err := c.CreateOrder(ctx, CreateOrderOptions{Intent: IntentCapture})
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.tokenCalls.Load())

	_, err = c.CreateOrder(ctx, CreateOrderOptions{Intent: IntentCapture})
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.tokenCalls.Load())

	_, err = c.CaptureOrder(ctx, CaptureOrderOptions{OrderID: "X"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, f.tokenCalls.Load())
	assert.EqualValues(t, 3, f.orderCalls.Load())
}

func TestMockApplicationCode(t *testing.T) {
	t.Run("sandbox", func(t *testing.T) {
		f := newFakePaypal(t)

		_, err := f.client(true).CaptureOrder(context.Background(), CaptureOrderOptions{
			OrderID:             "X",
			MockApplicationCode: "INSTRUMENT_DECLINED",
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"mock_application_codes":"INSTRUMENT_DECLINED"}`, f.lastHeaders.Get("PayPal-Mock-Response"))
	})

	t.Run("production", func(t *testing.T) {
		f := newFakePaypal(t)

		_, err := f.client(false).CreateOrder(context.Background(), CreateOrderOptions{
			Intent:              IntentCapture,
			MockApplicationCode: "INTERNAL_SERVER_ERROR",
		})
		require.NoError(t, err)
		assert.Empty(t, f.lastHeaders.Get("PayPal-Mock-Response"))
	})
}

func TestContextCancelled(t *testing.T) {
	f := newFakePaypal(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client(true).CaptureOrder(ctx, CaptureOrderOptions{OrderID: "X"})
	require.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, f.tokenCalls.Load())
}

func TestResponse_MarshalJSON(t *testing.T) {
	ok := Response[CreateOrderResponseData]{
		OK:         true,
		StatusCode: http.StatusCreated,
		Data:       &CreateOrderResponseData{ID: "X", Status: "CREATED", Links: []Link{}},
	}
	b, err := json.Marshal(ok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"data":{"id":"X","status":"CREATED","links":[]}}`, string(b))

	failed := &Response[CreateOrderResponseData]{
		StatusCode: http.StatusUnprocessableEntity,
		Failure:    &FailureResponseData{Name: "UNPROCESSABLE_ENTITY", Message: "m", DebugID: "d"},
	}
	b, err = json.Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"data":{"name":"UNPROCESSABLE_ENTITY","message":"m","debug_id":"d","details":null,"links":null}}`, string(b))
}
