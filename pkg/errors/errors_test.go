package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/linksync/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSourceUnavailableError(t *testing.T) {
	t.Run("with location", func(t *testing.T) {
		err := pkgerrors.NewSourceUnavailableError("catalog", "/data/works", errors.New("no such directory"))
		assert.Equal(t, "catalog source unavailable (/data/works): no such directory", err.Error())
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
	})

	t.Run("wrapped", func(t *testing.T) {
		base := pkgerrors.NewSourceUnavailableError("knowledge-base", "", context.DeadlineExceeded)
		wrapped := fmt.Errorf("load: %w", base)
		assert.True(t, pkgerrors.IsSourceUnavailable(wrapped))
		assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
	})
}

func TestMalformedRecordError(t *testing.T) {
	err := &pkgerrors.MalformedRecordError{Source: "catalog", Index: 4, Field: "local_id", Reason: "is missing"}
	assert.Equal(t, "malformed catalog row 4: field local_id is missing", err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrMalformedRecord)

	noField := &pkgerrors.MalformedRecordError{Source: "knowledge-base", Index: 0, Reason: "empty row"}
	assert.Equal(t, "malformed knowledge-base row 0: empty row", noField.Error())
}

func TestRemoteWriteError(t *testing.T) {
	cause := pkgerrors.NewNotFoundError("item", "Q404")
	err := &pkgerrors.RemoteWriteError{ItemID: "Q404", LocalID: "works/1", Stage: "fetching", Err: cause}

	assert.Equal(t, "write works/1 -> Q404 failed while fetching: item with ID Q404 not found", err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrRemoteWrite)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         *pkgerrors.APIError
		message     string
		rateLimited bool
		unavailable bool
	}{
		{
			name:        "too many requests",
			err:         &pkgerrors.APIError{Service: "wikibase", StatusCode: 429, Message: "slow down"},
			message:     "API error from wikibase (status 429): slow down",
			rateLimited: true,
		},
		{
			name:        "server error",
			err:         &pkgerrors.APIError{Service: "sparql", StatusCode: 503, Message: "busy"},
			message:     "API error from sparql (status 503): busy",
			unavailable: true,
		},
		{
			name:        "maxlag code",
			err:         &pkgerrors.APIError{Service: "wikibase", Code: "maxlag", Message: "lagged"},
			message:     "API error from wikibase (maxlag): lagged",
			unavailable: true,
		},
		{
			name:    "plain",
			err:     &pkgerrors.APIError{Service: "wikibase", Message: "odd"},
			message: "API error from wikibase: odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(tt.err))
			assert.Equal(t, tt.unavailable, errors.Is(tt.err, pkgerrors.ErrProviderUnavailable))
		})
	}
}

func TestAuthenticationError(t *testing.T) {
	err := &pkgerrors.AuthenticationError{Service: "wikibase", User: "Bot", Message: "wrong password"}
	assert.Equal(t, "authentication error for wikibase as Bot: wrong password", err.Error())
	assert.True(t, pkgerrors.IsAuthentication(err))
}

func TestWrapHelpers(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
	assert.Nil(t, pkgerrors.WrapParse("json", "x", nil))
	assert.Nil(t, pkgerrors.WrapAPI("svc", 500, nil))

	ioErr := pkgerrors.WrapIO("read", "/tmp/a.json", errors.New("denied"))
	var target *pkgerrors.IOError
	assert.True(t, errors.As(ioErr, &target))
	assert.Equal(t, "/tmp/a.json", target.Path)

	apiErr := pkgerrors.WrapAPI("svc", 502, errors.New("bad gateway"))
	assert.ErrorIs(t, apiErr, pkgerrors.ErrProviderUnavailable)
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("batch_limit", -1, "must be >= 0")
	assert.Equal(t, "validation failed for field batch_limit: must be >= 0", err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))
}
