// Package newsletter implements subscriber lifecycle and dispatch: one
// personalized, templated email per active subscriber on qualifying content
// events or admin broadcasts, with per-recipient failures isolated.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/RxRakari/main-portfolio-sub001/pkg/mailer"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

// Prometheus metrics for newsletter delivery.
var (
	emailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_newsletter_emails_total",
		Help: "Total newsletter emails attempted by outcome",
	}, []string{"status"}) // "sent", "failed"
)

// Outcome classifies the result of a subscribe call.
type Outcome string

const (
	// OutcomeSubscribed means a new subscriber record was created.
	OutcomeSubscribed Outcome = "subscribed"

	// OutcomeReactivated means an inactive subscriber was turned active again.
	OutcomeReactivated Outcome = "reactivated"

	// OutcomeAlreadySubscribed means the email was already active.
	OutcomeAlreadySubscribed Outcome = "already_subscribed"
)

// ErrInvalidEmail indicates a malformed subscribe address.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrUnknownToken indicates an unsubscribe token that matches no subscriber.
var ErrUnknownToken = errors.New("unknown unsubscribe token")

// Result aggregates a dispatch run. Individual failures are logged, not
// returned: delivery is best-effort, at-most-once per recipient per run.
type Result struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Service owns subscriber lifecycle and email dispatch.
type Service struct {
	subscribers store.SubscriberStore
	sender      mailer.Sender
	baseURL     string
	logger      zerolog.Logger
}

// New creates a newsletter service. baseURL is the public site root used
// for content and unsubscribe links.
func New(subscribers store.SubscriberStore, sender mailer.Sender, baseURL string, logger zerolog.Logger) *Service {
	return &Service{
		subscribers: subscribers,
		sender:      sender,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		logger:      logger,
	}
}

// Subscribe registers an email address. A brand-new address creates an
// active subscriber with a fresh unsubscribe token; a previously
// unsubscribed address is reactivated keeping its token; an already active
// address is a distinct no-op outcome.
func (s *Service) Subscribe(ctx context.Context, email, name string) (Outcome, *store.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return "", nil, ErrInvalidEmail
	}

	existing, err := s.subscribers.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		sub := &store.Subscriber{
			Email:            email,
			Name:             strings.TrimSpace(name),
			Active:           true,
			UnsubscribeToken: uuid.NewString(),
		}
		if err := s.subscribers.Create(ctx, sub); err != nil {
			return "", nil, fmt.Errorf("create subscriber: %w", err)
		}
		s.logger.Info().Str("email", email).Msg("New newsletter subscriber")
		return OutcomeSubscribed, sub, nil

	case err != nil:
		return "", nil, fmt.Errorf("find subscriber: %w", err)

	case existing.Active:
		return OutcomeAlreadySubscribed, existing, nil

	default:
		if err := s.subscribers.SetActive(ctx, existing.ID, true); err != nil {
			return "", nil, fmt.Errorf("reactivate subscriber: %w", err)
		}
		existing.Active = true
		s.logger.Info().Str("email", email).Msg("Reactivated newsletter subscriber")
		return OutcomeReactivated, existing, nil
	}
}

// Unsubscribe deactivates the subscriber owning token. The record is kept;
// only an explicit admin action hard-deletes. Unsubscribing an already
// inactive subscriber is a no-op.
func (s *Service) Unsubscribe(ctx context.Context, token string) error {
	sub, err := s.subscribers.FindByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUnknownToken
	}
	if err != nil {
		return fmt.Errorf("find subscriber by token: %w", err)
	}

	if !sub.Active {
		return nil
	}

	if err := s.subscribers.SetActive(ctx, sub.ID, false); err != nil {
		return fmt.Errorf("deactivate subscriber: %w", err)
	}
	s.logger.Info().Str("email", sub.Email).Msg("Newsletter unsubscribe")
	return nil
}

// NotifyContent sends the content-specific template to every active
// subscriber, one at a time. Sends are sequential so a slow or rate-limited
// mail provider is never flooded. A failed send is logged and skipped; the
// run always completes.
func (s *Service) NotifyContent(ctx context.Context, kind ContentKind, content Content) error {
	subs, err := s.subscribers.Active(ctx)
	if err != nil {
		return fmt.Errorf("resolve subscribers: %w", err)
	}
	if len(subs) == 0 {
		s.logger.Info().Str("kind", string(kind)).Msg("No active subscribers, skipping dispatch")
		return nil
	}

	link := contentLink(s.baseURL, kind, content.Ref)
	result := Result{}

	for _, sub := range subs {
		subject, body, err := renderContent(kind, content, sub.Name, link, s.unsubscribeURL(sub.UnsubscribeToken))
		if err != nil {
			// Template failure affects every recipient equally; stop here.
			return err
		}

		if err := s.sender.Send(ctx, sub.Email, subject, body); err != nil {
			result.Failed++
			emailsSentTotal.WithLabelValues("failed").Inc()
			s.logger.Warn().
				Err(err).
				Str("recipient", sub.Email).
				Str("kind", string(kind)).
				Msg("Newsletter send failed")
			continue
		}
		result.Succeeded++
		emailsSentTotal.WithLabelValues("sent").Inc()
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Str("title", content.Title).
		Int("sent", result.Succeeded).
		Int("failed", result.Failed).
		Msg("Content dispatch complete")
	return nil
}

// Broadcast sends an admin-supplied HTML body to every active subscriber
// with a personal unsubscribe footer appended. Per-recipient failures are
// isolated; the aggregate result is returned instead of an error.
func (s *Service) Broadcast(ctx context.Context, subject, bodyHTML string) (Result, error) {
	if strings.TrimSpace(subject) == "" {
		return Result{}, fmt.Errorf("broadcast subject is required")
	}

	subs, err := s.subscribers.Active(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("resolve subscribers: %w", err)
	}
	if len(subs) == 0 {
		s.logger.Info().Msg("No active subscribers, skipping broadcast")
		return Result{}, nil
	}

	result := Result{}
	for _, sub := range subs {
		body, err := appendUnsubscribeFooter(bodyHTML, s.unsubscribeURL(sub.UnsubscribeToken))
		if err != nil {
			return result, err
		}

		if err := s.sender.Send(ctx, sub.Email, subject, body); err != nil {
			result.Failed++
			emailsSentTotal.WithLabelValues("failed").Inc()
			s.logger.Warn().
				Err(err).
				Str("recipient", sub.Email).
				Msg("Broadcast send failed")
			continue
		}
		result.Succeeded++
		emailsSentTotal.WithLabelValues("sent").Inc()
	}

	s.logger.Info().
		Str("subject", subject).
		Int("sent", result.Succeeded).
		Int("failed", result.Failed).
		Msg("Broadcast complete")
	return result, nil
}

func (s *Service) unsubscribeURL(token string) string {
	return s.baseURL + "/api/newsletter/unsubscribe/" + token
}

// validEmail is a shape check, not an RFC validation; the store's unique
// index is the real uniqueness guard.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
