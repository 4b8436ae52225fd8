package monitor

import "context"

// Emitter emits monitoring events (e.g. to OTel Logs or Kafka).
// Best-effort; callers log and ignore errors.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}
