package logging

import "context"

type contextKey string

const (
	reviewIDKey contextKey = "review_id"
	pathKey     contextKey = "path"
)

// WithReviewID tags the context with the id of the change under review.
func WithReviewID(ctx context.Context, reviewID string) context.Context {
	return context.WithValue(ctx, reviewIDKey, reviewID)
}

// WithPath tags the context with the file path being processed.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey, path)
}

// GetReviewID retrieves the review ID from the context.
// Returns empty string if not present.
func GetReviewID(ctx context.Context) string {
	if id, ok := ctx.Value(reviewIDKey).(string); ok {
		return id
	}
	return ""
}

// GetPath retrieves the file path from the context.
// Returns empty string if not present.
func GetPath(ctx context.Context) string {
	if p, ok := ctx.Value(pathKey).(string); ok {
		return p
	}
	return ""
}
