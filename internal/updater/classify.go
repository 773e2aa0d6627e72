package updater

import (
	"context"
	"errors"

	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/publish"
	"github.com/caedis/vsmod-updater/internal/resolver"
)

// Classify names the failure class of err for user-facing summaries.
func Classify(err error) string {
	var te *moddb.TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingConfig):
		return "missing config"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, moddb.ErrNotFound):
		return "not found"
	case errors.Is(err, moddb.ErrMalformedResponse):
		return "malformed response"
	case errors.As(err, &te):
		return "transport"
	case errors.Is(err, resolver.ErrEmptyReleaseList):
		return "empty release list"
	case errors.Is(err, publish.ErrNameSpaceExhausted):
		return "name space exhausted"
	case errors.Is(err, publish.ErrBackup), errors.Is(err, publish.ErrWrite):
		return "filesystem"
	default:
		return "unexpected"
	}
}
