package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/promotion-service/pkg/errors"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// errorEnvelope is the {"error":{"code","message"}} body returned by the
// platform services.
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// turns it into an error. Structured 4xx and 503 bodies become AppErrors
// carrying the downstream code; other server errors stay plain errors so they
// surface as 500s.
func ParseResponseError(resp *http.Response, service string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%s returned status %d (read body: %w)", service, resp.StatusCode, err)
	}

	var env errorEnvelope
	if json.Unmarshal(body, &env) != nil || env.Error == nil {
		return fmt.Errorf("%s returned status %d: %s", service, resp.StatusCode, body)
	}

	status := resp.StatusCode
	if status >= 500 && status != http.StatusServiceUnavailable {
		return fmt.Errorf("%s server error (%d/%s): %s", service, status, env.Error.Code, env.Error.Message)
	}
	return apperrors.FromStatus(status, env.Error.Code, service+": "+env.Error.Message)
}
