package pubsub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/RioDefi/riochain/internal/core/domain"
	"github.com/RioDefi/riochain/internal/core/ports"
)

const requestTimeout = 15 * time.Second

// webhookPublisher POSTs every published event as JSON to a fixed
// endpoint. Delivery is best effort: failures are logged, never
// propagated, and a circuit breaker stops hammering an endpoint that
// keeps failing. If a secret is set, requests carry a JWT bearer token
// signed with it.
type webhookPublisher struct {
	endpoint   string
	secret     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewWebhookPublisher returns a publisher delivering events to endpoint.
func NewWebhookPublisher(endpoint, secret string) ports.EventPublisher {
	return &webhookPublisher{
		endpoint:   endpoint,
		secret:     secret,
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         newCircuitBreaker(),
	}
}

func (p *webhookPublisher) Publish(events ...domain.Event) {
	for _, event := range events {
		if err := p.doRequest(event); err != nil {
			log.WithError(err).WithField("type", event.Type).Warn(
				"failed to deliver event to webhook",
			)
		}
	}
}

func (p *webhookPublisher) doRequest(event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequest(
			http.MethodPost, p.endpoint, bytes.NewReader(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if p.secret != "" {
			token := jwt.New(jwt.SigningMethodHS256)
			tokenString, _ := token.SignedString([]byte(p.secret))
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tokenString))
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("webhook replied with status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}

func newCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "webhook",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests > 20 && failureRatio >= 0.7
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.Warn("webhook endpoint seems down, stop delivering events")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				log.Info("checking webhook endpoint status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				log.Info("webhook endpoint seems ok, restart delivering events")
			}
		},
	})
}
