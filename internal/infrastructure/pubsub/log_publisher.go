package pubsub

import (
	log "github.com/sirupsen/logrus"

	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
)

// logPublisher writes every published event to the structured log. It is
// the default publisher of the daemon.
type logPublisher struct{}

// NewLogPublisher returns a publisher that logs events and drops them.
func NewLogPublisher() ports.EventPublisher {
	return logPublisher{}
}

func (p logPublisher) Publish(events ...domain.Event) {
	for _, event := range events {
		log.WithFields(log.Fields{
			"id":         event.ID,
			"attributes": event.Attributes,
		}).Infof("event: %s", event.Type)
	}
}
