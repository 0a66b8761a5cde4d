package common

import "context"

type ctxKey string

const (
	subjectKey ctxKey = "auth/subject"
	rolesKey   ctxKey = "auth/roles"
)

// WithSubject stores the authenticated principal identifier on the context.
func WithSubject(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, subjectKey, id)
}

// Subject extracts the authenticated principal identifier from the context.
func Subject(ctx context.Context) (string, bool) {
	v := ctx.Value(subjectKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// WithRoles stores the principal's role claims on the context.
func WithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, rolesKey, roles)
}

// Roles extracts role claims from the context.
func Roles(ctx context.Context) []string {
	if v, ok := ctx.Value(rolesKey).([]string); ok {
		return v
	}
	return nil
}

// HasRole reports whether the context carries the given role claim.
func HasRole(ctx context.Context, role string) bool {
	for _, r := range Roles(ctx) {
		if r == role {
			return true
		}
	}
	return false
}
