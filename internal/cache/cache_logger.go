package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// InvalidateGrantCache drops a subject's cached grant set. Called
// synchronously from grant/revoke before the transaction returns so a
// follow-up authorization check re-reads the store.
func InvalidateGrantCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.Grants, fmt.Sprintf("subject:%s", userID))
}

// InvalidateUserCache drops a user's cached profile entries.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID, email string) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("id:%s", userID),
		fmt.Sprintf("email:%s", email))
	SafeDelete(ctx, cm.Exists,
		fmt.Sprintf("id:%s", userID),
		fmt.Sprintf("email:%s", email))
}

// InvalidateCourseCache drops course listing caches for a campus.
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID, campusID uint) {
	SafeDelete(ctx, cm.Course,
		fmt.Sprintf("id:%d", courseID),
		fmt.Sprintf("details:%d", courseID))
	SafeInvalidatePattern(ctx, cm.Course, fmt.Sprintf("campus:%d:*", campusID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
}
