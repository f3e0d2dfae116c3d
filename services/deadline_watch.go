package services

import (
	"context"
	"time"

	"mission-board-system/models"
)

// DeadlineClockInterval is how often a watched mission's countdown is
// re-evaluated. The ticker only refreshes the display; every emitted status
// is recomputed from the mission fields.
const DeadlineClockInterval = 60 * time.Second

// WatchDeadline re-evaluates a mission's deadline on a fixed cadence while
// the mission is being observed. It emits one immediate snapshot and then
// one per tick, and stops deterministically when ctx is cancelled: the
// ticker is released and the channel closed, so a mission leaving view
// never leaks a timer.
func WatchDeadline(ctx context.Context, mission models.Mission) <-chan DeadlineStatus {
	out := make(chan DeadlineStatus, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(DeadlineClockInterval)
		defer ticker.Stop()

		emit := func() bool {
			status := EvaluateDeadline(mission.CreatedAt, mission.Urgency, time.Now(), mission.Status)
			select {
			case out <- status:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ticker.C:
				if !emit() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
