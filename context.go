package authgate

import "context"

type subjectContextKey struct{}

// WithSubject attaches the authenticated user identifier to ctx. The access
// middleware calls this after a successful Validate or silent refresh; handlers
// read it back through [SubjectFromContext].
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// SubjectFromContext returns the authenticated user identifier set by the
// access middleware, or false when the request is unauthenticated.
func SubjectFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	subject, ok := ctx.Value(subjectContextKey{}).(string)
	if subject == "" {
		return "", false
	}
	return subject, ok
}
