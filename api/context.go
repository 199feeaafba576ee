package api

import (
	"context"
	"errors"
)

type keyType string

const (
	sessionKey keyType = "session"
)

// ctxWithSession adds the admin session marker to the context
func ctxWithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// ctxGetSession retrieves the admin session marker set by protectRoute
func ctxGetSession(ctx context.Context) (string, error) {
	if ctxValue := ctx.Value(sessionKey); ctxValue == nil {
		return "", errors.New("key not found in context")
	} else if valueAsString, ok := ctxValue.(string); !ok {
		return "", errors.New("value is not of type `string`")
	} else {
		return valueAsString, nil
	}
}
