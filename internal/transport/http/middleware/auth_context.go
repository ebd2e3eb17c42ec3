package middleware

import (
	"context"

	appCtx "github.com/baechuer/notepad-service/internal/pkg/context"
)

// WithUser records the authenticated caller. The id is also what
// logger.WithCtx attaches as user_id.
func WithUser(ctx context.Context, userID string) context.Context {
	return appCtx.WithUserID(ctx, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	v := appCtx.GetUserID(ctx)
	return v, v != ""
}
