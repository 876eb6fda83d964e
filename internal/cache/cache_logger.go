package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateFormCache drops every cached view of one form, plus its
// response count. Called on form delete; accepted submissions only
// touch the count key, which the response repository drops itself.
func InvalidateFormCache(ctx context.Context, cm *CacheManager, formID uint, publicURL string, ownerID uint) {
	SafeDelete(ctx, cm.Form,
		fmt.Sprintf("id:%d", formID),
		fmt.Sprintf("public:%s", publicURL))
	SafeInvalidatePattern(ctx, cm.Form, fmt.Sprintf("owner:%d:*", ownerID))
	SafeDelete(ctx, cm.Response, fmt.Sprintf("count:%d", formID))
}
