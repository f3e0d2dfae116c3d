package services

import (
	"context"
	"testing"
	"time"

	"mission-board-system/models"
)

func TestWatchDeadlineEmitsImmediately(t *testing.T) {
	mission := models.Mission{
		ID:        "m1",
		Urgency:   models.UrgencyImportant,
		Status:    models.MissionStatusInProgress,
		CreatedAt: time.Now().Add(-time.Hour),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := WatchDeadline(ctx, mission)

	select {
	case status := <-ch:
		if status.Delivered || status.Expired {
			t.Errorf("unexpected status for in-progress mission: %+v", status)
		}
		// ~2h remaining on a 3h tier started an hour ago.
		if status.Hours != 1 && status.Hours != 2 {
			t.Errorf("remaining hours = %d, want ~2", status.Hours)
		}
	case <-time.After(time.Second):
		t.Fatal("no immediate snapshot emitted")
	}
}

func TestWatchDeadlineStopsOnCancel(t *testing.T) {
	mission := models.Mission{
		ID:        "m1",
		Urgency:   models.UrgencyUrgent,
		Status:    models.MissionStatusInProgress,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := WatchDeadline(ctx, mission)

	<-ch // initial snapshot
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// A tick may have raced the cancel; the channel must still
			// close right after.
			if _, stillOpen := <-ch; stillOpen {
				t.Fatal("channel not closed after cancel")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchDeadlineDeliveredMission(t *testing.T) {
	mission := models.Mission{
		ID:        "m1",
		Urgency:   models.UrgencyUrgent,
		Status:    models.MissionStatusDelivered,
		CreatedAt: time.Now().Add(-10 * time.Hour),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status := <-WatchDeadline(ctx, mission)
	if !status.Delivered {
		t.Errorf("delivered mission reported %+v, want Delivered", status)
	}
	if status.Expired {
		t.Error("delivered mission must not report expired")
	}
}
