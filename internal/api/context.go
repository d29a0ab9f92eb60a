package api

import "context"

type ctxKey string

const ctxKeyRequester ctxKey = "requester"

// WithRequester attaches the authenticated user id.
func WithRequester(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequester, userID)
}

// RequesterFromContext returns "" when the request is anonymous.
func RequesterFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeyRequester).(string)
	return s
}
