package worker

import (
	"github.com/spec-kit/triage-service/internal/events"
)

// RegisterObservers attaches the triage observers to the bus. Audit is
// attached first so the trail entry lands before any outbound alert.
func RegisterObservers(bus *events.Bus, observers ...events.Observer) {
	if bus == nil {
		return
	}
	for _, observer := range observers {
		bus.Attach(observer)
	}
}
