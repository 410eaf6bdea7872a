package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Response is either a successful PayPal result (OK, Data set) or a PayPal
// failure (not OK, Failure set). OK mirrors the HTTP status class only.
type Response[T any] struct {
	OK         bool
	StatusCode int
	Data       *T
	Failure    *FailureResponseData
}

func (r Response[T]) MarshalJSON() ([]byte, error) {
	if r.OK {
		return json.Marshal(struct {
			OK   bool `json:"ok"`
			Data *T   `json:"data"`
		}{true, r.Data})
	}

	return json.Marshal(struct {
		OK   bool                 `json:"ok"`
		Data *FailureResponseData `json:"data"`
	}{false, r.Failure})
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// decodeResponse reads the body regardless of status. A body that is not
// JSON is returned as an error, not as a failure response.
func decodeResponse[T any](resp *http.Response) (*Response[T], error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	result := &Response[T]{
		OK:         isSuccess(resp.StatusCode),
		StatusCode: resp.StatusCode,
	}

	if result.OK {
		var data T
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("decode paypal response (status=%d): %w", resp.StatusCode, err)
		}
		result.Data = &data
		return result, nil
	}

	var failure FailureResponseData
	if err := json.Unmarshal(body, &failure); err != nil {
		return nil, fmt.Errorf("decode paypal failure (status=%d): %w", resp.StatusCode, err)
	}
	result.Failure = &failure

	return result, nil
}
