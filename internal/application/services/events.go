package services

import (
	"context"
	"log"

	"github.com/sarathaj/User-Management/internal/messaging"
)

// publishEvent never fails the caller; delivery problems are logged.
func publishEvent(ctx context.Context, publisher messaging.Publisher, event string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event, payload); err != nil {
		log.Printf("Failed to publish %s: %v", event, err)
	}
}
