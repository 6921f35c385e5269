package transition

import (
	"time"

	"github.com/google/uuid"
)

// Notice mirrors a published event for consumers on other goroutines.
// It is delivered through the broadcaster configured with WithBroadcaster.
type Notice struct {
	ID      uuid.UUID
	Handler string
	Event   Event
	State   State
	At      time.Time
}
