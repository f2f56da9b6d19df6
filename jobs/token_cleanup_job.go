package jobs

import (
	"time"

	"go.uber.org/zap"

	"servicehub-server/services"
	"servicehub-server/utils"
)

// TokenCleanupJob prunes expired and revoked refresh tokens
type TokenCleanupJob struct {
	jwtSvc   *services.JWTService
	interval time.Duration
	stopChan chan bool
}

// NewTokenCleanupJob creates a new token cleanup job
func NewTokenCleanupJob(jwtSvc *services.JWTService) *TokenCleanupJob {
	return &TokenCleanupJob{
		jwtSvc:   jwtSvc,
		interval: time.Hour,
		stopChan: make(chan bool),
	}
}

// Start begins the cleanup job
func (j *TokenCleanupJob) Start() {
	go j.run()
	utils.GetLogger().Info("token cleanup job started", zap.Duration("interval", j.interval))
}

// Stop stops the cleanup job
func (j *TokenCleanupJob) Stop() {
	j.stopChan <- true
	utils.GetLogger().Info("token cleanup job stopped")
}

func (j *TokenCleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.jwtSvc.CleanupExpiredTokens(); err != nil {
				utils.GetLogger().Error("token cleanup failed", zap.Error(err))
			}
		case <-j.stopChan:
			return
		}
	}
}
