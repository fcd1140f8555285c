package address

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// DefaultDelay is the artificial latency before a successful lookup returns,
// long enough for a form to show its loading state.
const DefaultDelay = 500 * time.Millisecond

// Service answers lookups in-process: validate, synthesize, then wait Delay.
type Service struct {
	// Delay is added before returning a successful result. Zero disables it.
	Delay time.Duration

	// Synthesize produces the candidate addresses. Defaults to the package
	// Synthesize.
	Synthesize SynthesizeFunc

	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

// NewService creates a lookup service. metrics may be nil.
func NewService(delay time.Duration, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Delay:      delay,
		Synthesize: Synthesize,
		logger:     logger,
		metrics:    metrics,
	}
}

// Find validates the submission and returns synthesized addresses.
// Validation failures return before synthesis runs; an empty synthesis
// result is reported as a not-found error carrying MsgNoResults.
func (s *Service) Find(ctx context.Context, postcode, houseNumber string) ([]domain.Address, error) {
	const op = "address.find"
	start := time.Now()

	if err := Validate(postcode, houseNumber); err != nil {
		s.metrics.ObserveLookup(telemetry.OutcomeInvalid, 0, time.Since(start))
		return nil, err
	}

	addresses := s.Synthesize(postcode, houseNumber)
	if len(addresses) == 0 {
		s.metrics.ObserveLookup(telemetry.OutcomeNotFound, 0, time.Since(start))
		return nil, &domain.Error{Code: domain.ENOTFOUND, Op: op, Message: MsgNoResults, Err: ErrNoResults}
	}

	if err := sleep(ctx, s.Delay); err != nil {
		s.metrics.ObserveLookup(telemetry.OutcomeUnavailable, 0, time.Since(start))
		return nil, domain.Unavailable(err, op, MsgFetchFailed)
	}

	s.logger.DebugContext(ctx, "addresses synthesized",
		slog.String("postcode", postcode),
		slog.String("house_number", houseNumber),
		slog.Int("count", len(addresses)),
	)
	s.metrics.ObserveLookup(telemetry.OutcomeOK, len(addresses), time.Since(start))

	return addresses, nil
}

// sleep waits for d or until ctx is done. It never alters the result it delays.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
