package logging

import (
	"context"
	"testing"
)

func TestWithReviewID(t *testing.T) {
	ctx := WithReviewID(context.Background(), "review-123")

	if got := GetReviewID(ctx); got != "review-123" {
		t.Errorf("GetReviewID() = %q, want %q", got, "review-123")
	}
}

func TestWithPath(t *testing.T) {
	ctx := WithPath(context.Background(), "src/main.go")

	if got := GetPath(ctx); got != "src/main.go" {
		t.Errorf("GetPath() = %q, want %q", got, "src/main.go")
	}
}

func TestContextValues_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetReviewID(ctx); got != "" {
		t.Errorf("GetReviewID() = %q, want empty string", got)
	}
	if got := GetPath(ctx); got != "" {
		t.Errorf("GetPath() = %q, want empty string", got)
	}
}

func TestPathOverridesPerFile(t *testing.T) {
	base := WithReviewID(context.Background(), "r1")
	a := WithPath(base, "a.txt")
	b := WithPath(base, "b.txt")

	if GetPath(a) != "a.txt" || GetPath(b) != "b.txt" {
		t.Errorf("paths leaked between derived contexts: %q %q", GetPath(a), GetPath(b))
	}
	if GetReviewID(b) != "r1" {
		t.Errorf("GetReviewID() = %q, want %q", GetReviewID(b), "r1")
	}
}
