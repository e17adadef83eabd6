package httpclient

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/Aasim47/vendorconex/pkg/errors"
)

// UpstreamErrorResponse matches the error envelope returned by the
// text-completion API ({"error":{"code":429,"message":"...","status":"RESOURCE_EXHAUSTED"}}).
type UpstreamErrorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ParseUpstreamError reads the body of a non-2xx response from the completion
// API and translates it into an AppError carrying the upstream status. The
// response body is fully consumed and closed.
func ParseUpstreamError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.Upstream(resp.StatusCode, "failed to read upstream error body")
	}

	var upstream UpstreamErrorResponse
	if json.Unmarshal(bodyBytes, &upstream) == nil && upstream.Error != nil && upstream.Error.Message != "" {
		return apperrors.Upstream(resp.StatusCode, upstream.Error.Message)
	}

	return apperrors.Upstream(resp.StatusCode, string(bodyBytes))
}
