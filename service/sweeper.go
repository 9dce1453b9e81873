// file: service/sweeper.go

package service

import (
	"context"
	"go-auth-api/config"
	"go-auth-api/logger"
	"go-auth-api/repository"
	"time"
)

// Sweeper periodically deletes refresh credentials older than the
// configured refresh lifetime. It is a signature-independent backstop:
// even if a signed token somehow outlived its expiry, its store record
// would not. Sweep failures are logged and retried implicitly on the
// next tick; they are never fatal to the service.
type Sweeper struct {
	creds    repository.ICredentialRepository
	lifetime time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(creds repository.ICredentialRepository, cfg *config.Config) *Sweeper {
	return &Sweeper{
		creds:    creds,
		lifetime: cfg.JWT.RefreshLifetime,
		interval: cfg.Sweeper.Interval,
		now:      time.Now,
	}
}

// Run blocks, sweeping once per interval until ctx is cancelled. It is
// meant to be started in its own goroutine and stopped by the process
// supervisor during shutdown.
func (s *Sweeper) Run(ctx context.Context) {
	logger.Log.WithField("interval", s.interval.String()).Info("Credential sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Credential sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				logger.Log.WithError(err).Error("Credential sweep failed")
			}
		}
	}
}

// Sweep deletes every credential whose age exceeds the refresh
// lifetime and returns the number of records removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.lifetime)

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	deleted, err := s.creds.DeleteOlderThan(storeCtx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		logger.Log.WithField("deleted", deleted).Info("Swept stale refresh credentials")
	}
	return deleted, nil
}
