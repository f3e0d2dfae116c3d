package services

import (
	"log"
	"time"

	"mission-board-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartDeadlineSweep logs missions whose deadline has just passed, once a
// minute. The sweep is operator telemetry only: nothing is written back, so
// the authoritative expiry fact stays a recomputation from createdAt and
// the urgency tier, never a stored flag that could go stale.
//
// Runs are singleton-scheduled: a slow query cannot overlap the next tick,
// so the reported set is only ever touched by one run at a time.
func (s *MissionService) StartDeadlineSweep() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	reported := make(map[string]struct{})

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var missions []models.Mission
			err := s.DB.Where("status = ?", models.MissionStatusInProgress).
				Find(&missions).Error
			if err != nil {
				log.Printf("[DeadlineSweep] DB error: %v", err)
				return
			}

			for _, m := range sweepExpired(missions, time.Now(), reported) {
				log.Printf("⏰ Mission expired: %s (%s, created %s)", m.Title, m.Urgency, m.CreatedAt.Format(time.RFC3339))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
}

// sweepExpired returns the in-progress missions that expired since the last
// sweep and records them in reported so each mission is logged once. Entries
// for missions no longer in the in-progress set are dropped, keeping the set
// bounded by the live board instead of growing for the process lifetime.
func sweepExpired(missions []models.Mission, now time.Time, reported map[string]struct{}) []models.Mission {
	live := make(map[string]struct{}, len(missions))
	var expired []models.Mission

	for _, m := range missions {
		live[m.ID] = struct{}{}
		if _, seen := reported[m.ID]; seen {
			continue
		}
		if EvaluateDeadline(m.CreatedAt, m.Urgency, now, m.Status).Expired {
			reported[m.ID] = struct{}{}
			expired = append(expired, m)
		}
	}

	for id := range reported {
		if _, ok := live[id]; !ok {
			delete(reported, id)
		}
	}

	return expired
}
