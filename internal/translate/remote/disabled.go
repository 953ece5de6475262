package remote

import (
	"context"
	"errors"
)

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("remote translation disabled")

// Disabled is the Remote used when no translation endpoint is configured.
// Every call fails, so the translation service falls back to original labels
// for anything the seed cache does not cover.
type Disabled struct{}

func (Disabled) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return "", ErrDisabled
}
