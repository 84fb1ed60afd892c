package ports

import "github.com/RioDefi/riochain/internal/core/domain"

// EventPublisher receives the ordered domain events produced by a
// committed operation. Publishing happens strictly after commit, so a
// failed operation never leaks notifications.
type EventPublisher interface {
	Publish(events ...domain.Event)
}
