package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/roomclerk/roomclerk/internal/config"
	"github.com/roomclerk/roomclerk/internal/db"
	"github.com/roomclerk/roomclerk/internal/scheduling"
)

const retentionJobTimeout = 2 * time.Minute

// RegisterRetentionJob schedules the nightly purge of meetings older than the
// configured retention period. A zero retention disables the job.
func RegisterRetentionJob(database *db.DB, cfg config.BookingConfig) error {
	if database == nil {
		return fmt.Errorf("retention job requires database")
	}
	if cfg.RetentionDays == 0 {
		log.Info().Msg("Meeting retention disabled")
		return nil
	}

	jobName := "meeting_retention"
	jobLogger := log.With().
		Str("component", "meeting_retention_job").
		Int("retention_days", cfg.RetentionDays).
		Logger()

	_, err := AddJob(jobName, cfg.RetentionCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), retentionJobTimeout)
		defer cancel()

		cutoff := scheduling.DateOf(time.Now().AddDate(0, 0, -cfg.RetentionDays))
		removed, err := database.Queries.DeleteMeetingsBefore(ctx, cutoff.ISO())
		if err != nil {
			jobLogger.Error().Err(err).Str("cutoff", cutoff.ISO()).Msg("Failed to purge old meetings")
			return
		}
		if removed > 0 {
			jobLogger.Info().Int64("removed", removed).Str("cutoff", cutoff.ISO()).Msg("Purged old meetings")
		}
	})
	return err
}
