package services

import (
	"testing"
	"time"

	"mission-board-system/models"
)

func TestSweepExpired(t *testing.T) {
	base := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	inProgress := func(id string, createdAt time.Time) models.Mission {
		return models.Mission{
			ID:        id,
			Title:     "Missão " + id,
			Urgency:   models.UrgencyUrgent,
			Status:    models.MissionStatusInProgress,
			CreatedAt: createdAt,
		}
	}

	t.Run("expired mission reported exactly once", func(t *testing.T) {
		reported := make(map[string]struct{})
		missions := []models.Mission{
			inProgress("m1", base.Add(-2*time.Hour)),
			inProgress("m2", base.Add(-10*time.Minute)),
		}

		expired := sweepExpired(missions, base, reported)
		if len(expired) != 1 || expired[0].ID != "m1" {
			t.Fatalf("first sweep = %v, want only m1", expired)
		}

		// Same board one tick later: m1 must not be reported again.
		expired = sweepExpired(missions, base.Add(time.Minute), reported)
		if len(expired) != 0 {
			t.Fatalf("second sweep = %v, want none", expired)
		}
	})

	t.Run("fresh expiry surfaces on a later sweep", func(t *testing.T) {
		reported := make(map[string]struct{})
		missions := []models.Mission{
			inProgress("m1", base.Add(-2*time.Hour)),
			inProgress("m2", base.Add(-50*time.Minute)),
		}

		sweepExpired(missions, base, reported)

		expired := sweepExpired(missions, base.Add(15*time.Minute), reported)
		if len(expired) != 1 || expired[0].ID != "m2" {
			t.Fatalf("later sweep = %v, want only m2", expired)
		}
	})

	t.Run("reported entries pruned once a mission leaves the board", func(t *testing.T) {
		reported := make(map[string]struct{})
		missions := []models.Mission{
			inProgress("m1", base.Add(-2*time.Hour)),
			inProgress("m2", base.Add(-3*time.Hour)),
		}

		sweepExpired(missions, base, reported)
		if len(reported) != 2 {
			t.Fatalf("reported after first sweep = %d entries, want 2", len(reported))
		}

		// m2 got delivered; only m1 is still in progress.
		sweepExpired(missions[:1], base.Add(time.Minute), reported)
		if len(reported) != 1 {
			t.Fatalf("reported after prune = %d entries, want 1", len(reported))
		}
		if _, ok := reported["m1"]; !ok {
			t.Errorf("m1 missing from reported set after prune")
		}
	})
}
