package notifier

import (
	"context"
	"errors"

	"fridgewatch/backend/services/fridge-monitor/internal/service"
)

// Multi delivers to every notifier in order. One failing channel does not stop the rest.
type Multi []service.Notifier

// Notify returns the joined errors of all failed channels, or nil.
func (m Multi) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
