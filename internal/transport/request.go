package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/linksync/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure. Non-200
// responses become APIError and undecodable bodies become ParseError.
func DecodeResponse(resp *http.Response, service string, target any) error {
	defer func() {
		drain(resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Endpoint:   resp.Request.URL.Redacted(),
			Message:    msg,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.WrapParse("json", service+" response", err)
	}
	return nil
}
