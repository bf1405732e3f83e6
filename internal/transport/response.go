package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/refcanon/refcanon/pkg/errors"
	"github.com/refcanon/refcanon/pkg/logging"
)

// DecodeResponse reads and closes the response body and decodes it as
// JSON into target. A non-200 status becomes an APIError carrying the
// status code and body.
func DecodeResponse(resp *http.Response, source string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewAPIError(source, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", source, err)
	}
	return nil
}
