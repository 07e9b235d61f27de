// Package scheduler runs periodic background jobs over the report store.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/smartfir/fir-filing-api/databases"
	"github.com/smartfir/fir-filing-api/models"
)

// Scheduler handles periodic background jobs for report escalation
type Scheduler struct {
	cron          *cron.Cron
	RDB           databases.ReportDatabase
	escalateAfter time.Duration
}

// NewScheduler creates a new scheduler instance; escalateAfterDays is how long
// a report may sit in Pending before it is flagged for attention
func NewScheduler(rdb databases.ReportDatabase, escalateAfterDays int) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		RDB:           rdb,
		escalateAfter: time.Duration(escalateAfterDays) * 24 * time.Hour,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Flag stale pending reports daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.EscalateStaleReports(ctx); err != nil {
			zap.S().Errorw("stale report escalation failed", "error", err)
		}
	})
	if err != nil {
		zap.S().Errorw("failed to register escalation job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("report escalation scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("report escalation scheduler stopped")
}

// EscalateStaleReports marks Pending reports older than the configured window
// with escalated: true so station dashboards can surface them. Already-flagged
// reports are skipped, which keeps the job idempotent.
func (s *Scheduler) EscalateStaleReports(ctx context.Context) error {
	cutoff := primitive.NewDateTimeFromTime(time.Now().UTC().Add(-s.escalateAfter))

	stale, err := s.RDB.Find(ctx, bson.M{
		"fir_status": models.StatusPending,
		"escalated":  bson.M{"$ne": true},
		"filed_date": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return err
	}

	for _, report := range stale {
		_, err := s.RDB.UpdateOne(ctx,
			bson.M{"_id": report.ID},
			bson.M{"$set": bson.M{"escalated": true}},
		)
		if err != nil {
			zap.S().Errorw("failed to escalate report",
				"reportId", report.ID.Hex(),
				"error", err,
			)
			continue
		}
		zap.S().Warnw("report escalated after pending too long",
			"reportId", report.ID.Hex(),
			"station", report.PoliceStation,
			"filedDate", report.FiledDate.Time(),
		)
	}
	return nil
}
