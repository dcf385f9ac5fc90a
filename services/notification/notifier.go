package notification

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers appointment reminders. Delivery transport (push, email,
// SMS) is the host application's concern; the core only defines the boundary.
type Notifier interface {
	NotifyUser(ctx context.Context, userID, title, body string) error
	NotifyProvider(ctx context.Context, providerID, title, body string) error
}

// LogNotifier is the default implementation: it records the notification and
// does nothing else. Useful in development and as a safe fallback when no
// transport is wired.
type LogNotifier struct{}

func (LogNotifier) NotifyUser(_ context.Context, userID, title, body string) error {
	zap.L().Info("user notification",
		zap.String("userId", userID), zap.String("title", title), zap.String("body", body))
	return nil
}

func (LogNotifier) NotifyProvider(_ context.Context, providerID, title, body string) error {
	zap.L().Info("provider notification",
		zap.String("providerId", providerID), zap.String("title", title), zap.String("body", body))
	return nil
}
