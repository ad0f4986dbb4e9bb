package logger

import (
	"context"

	"go.uber.org/zap"
)

const (
	logIDKey    = "logID"
	durationKey = "duration"
	requestKey  = "request"
)

func getAttrs(ctx context.Context) []zap.Field {
	lgCtx, _ := ctx.Value(&logCtx).(*logContext)
	if lgCtx == nil {
		return nil
	}

	return lgCtx.ToFields()
}

// RequestID returns the request id bound by WithRequestID.
func RequestID(ctx context.Context) string {
	lgCtx, _ := ctx.Value(&logCtx).(*logContext)
	if lgCtx == nil {
		return ""
	}
	return lgCtx.RequestID
}
