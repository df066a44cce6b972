package userctx

import (
	"context"
	"errors"
)

type ctxKey struct{}

// WithContext stores a resolved UserContext on the request context.
func WithContext(ctx context.Context, uc UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, uc)
}

// FromContext retrieves the resolved UserContext placed by the middleware.
func FromContext(ctx context.Context) (UserContext, error) {
	if v := ctx.Value(ctxKey{}); v != nil {
		if uc, ok := v.(UserContext); ok {
			return uc, nil
		}
	}
	return UserContext{}, errors.New("user context not resolved")
}
