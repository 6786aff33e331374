// Package scheduler runs the periodic maintenance jobs of the academy.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/vxacademy/academy/config"
	"github.com/vxacademy/academy/internal/service"
	"go.uber.org/fx"
)

const jobTimeout = 5 * time.Minute

type Scheduler struct {
	cron         *cron.Cron
	certificates service.CertificateService
	clock        func() time.Time
}

// NewScheduler registers the certificate expiry sweep on the configured
// schedule. The cron loop starts and stops with the application.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, certificates service.CertificateService) (*Scheduler, error) {
	s := &Scheduler{
		cron:         cron.New(),
		certificates: certificates,
		clock:        time.Now,
	}
	spec := cfg.Certificate.ExpiryCron
	if spec == "" {
		spec = "0 2 * * *"
	}
	if _, err := s.cron.AddFunc(spec, s.ExpireCertificates); err != nil {
		return nil, errors.Wrapf(err, "invalid CERTIFICATE_EXPIRY_CRON %q", spec)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.cron.Start()
			log.Info().Str("schedule", spec).Msg("[SCHEDULER] certificate expiry job started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			done := s.cron.Stop()
			select {
			case <-done.Done():
				log.Info().Msg("[SCHEDULER] stopped")
			case <-ctx.Done():
				log.Warn().Msg("[SCHEDULER] stop timed out with a job still running")
			}
			return nil
		},
	})
	return s, nil
}

// ExpireCertificates is the body of the expiry job.
func (s *Scheduler) ExpireCertificates() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.certificates.ExpireDue(ctx, s.clock())
	if err != nil {
		log.Error().Err(err).Msg("[SCHEDULER] certificate expiry failed")
		return
	}
	log.Info().Int("expired", n).Msg("[SCHEDULER] certificate expiry done")
}
