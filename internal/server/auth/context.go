package auth

import "context"

type subjectKey struct{}

// WithSubject returns ctx carrying the authenticated user id.
func WithSubject(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, subjectKey{}, userID)
}

// SubjectFromContext returns the authenticated user id, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
