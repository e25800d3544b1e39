package domain

import "context"

// User is the authenticated identity attached to a request.
type User struct {
	ID    string
	Email string
}

type userCtxKey struct{}

// ContextWithUser stores the authenticated user in the context.
func ContextWithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(User)
	return u, ok
}
