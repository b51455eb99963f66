package room

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sweeper deletes expired invites in the background. Expired codes are
// already rejected at join time; this keeps the table from growing.
type Sweeper struct {
	DB       *gorm.DB
	Log      *zap.Logger
	Interval time.Duration
}

func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := s.DB.WithContext(ctx).
				Where("expires_at < ?", time.Now()).
				Delete(&Invite{})
			if res.Error != nil {
				s.Log.Warn("invite sweep failed", zap.Error(res.Error))
				continue
			}
			if res.RowsAffected > 0 {
				s.Log.Info("swept expired invites", zap.Int64("count", res.RowsAffected))
			}
		}
	}
}
