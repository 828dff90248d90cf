package auth

import (
	"context"
	"sync"
	"time"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultCleanupInterval = 24 * time.Hour
	cleanupTimeout         = time.Minute
)

// TokenPurger removes refresh tokens that can no longer be used
type TokenPurger interface {
	CleanupTokens(ctx context.Context) (int64, error)
}

// TokenCleanupService periodically purges expired and revoked refresh tokens
type TokenCleanupService struct {
	purger   TokenPurger
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTokenCleanupService(db *gorm.DB) *TokenCleanupService {
	return newTokenCleanupService(repository.NewRefreshTokenRepository(db), defaultCleanupInterval)
}

func newTokenCleanupService(purger TokenPurger, interval time.Duration) *TokenCleanupService {
	return &TokenCleanupService{purger: purger, interval: interval}
}

// Start runs one purge immediately and then one per interval until Stop
func (s *TokenCleanupService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
	logrus.Infof("Token cleanup service started (every %s)", s.interval)
}

// Stop cancels the loop and waits for an in-flight purge to return
func (s *TokenCleanupService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	logrus.Info("Token cleanup service stopped")
}

func (s *TokenCleanupService) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.purge(ctx)
	for {
		select {
		case <-ticker.C:
			s.purge(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *TokenCleanupService) purge(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, cleanupTimeout)
	defer cancel()

	deleted, err := s.purger.CleanupTokens(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to cleanup refresh tokens")
		return
	}
	logrus.WithField("deleted", deleted).Info("Refresh token cleanup completed")
}
