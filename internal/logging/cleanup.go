package logging

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/varshaaa-v/Web-Technology-Project/internal/models"
	"gorm.io/gorm"
)

// DeleteOlderThan removes system logs older than retentionDays.
func DeleteOlderThan(db *gorm.DB, retentionDays int, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup schedules a daily purge of old system logs. Stop the returned
// cron to end it.
func StartCleanup(db *gorm.DB, retentionDays int) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc("@daily", func() {
		deleted, err := DeleteOlderThan(db, retentionDays, time.Now())
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
		} else if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
