package pubsub

import (
	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
)

type multiPublisher struct {
	publishers []ports.EventPublisher
}

// NewMultiPublisher fans every published event out to all the given
// publishers, in order.
func NewMultiPublisher(publishers ...ports.EventPublisher) ports.EventPublisher {
	return multiPublisher{publishers}
}

func (p multiPublisher) Publish(events ...domain.Event) {
	for _, publisher := range p.publishers {
		publisher.Publish(events...)
	}
}
