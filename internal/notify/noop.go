package notify

import (
	"context"

	"go.uber.org/zap"
)

// Noop stands in when no SMTP host is configured.
type Noop struct{}

func (Noop) Notify(_ context.Context, recipient string, kind Kind, _ map[string]string) error {
	zap.L().Debug("notification skipped, mail not configured",
		zap.String("recipient", recipient),
		zap.String("kind", string(kind)),
	)
	return nil
}
