package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"mission-board-system/models"

	"gorm.io/gorm"
)

// FeedWindowLimit bounds each poll to a small recency window rather than
// the full mission history.
const FeedWindowLimit = 20

// MissionAlert is a user-facing "new mission" notification. Delivery is
// best-effort: a consumer not subscribed at the moment of creation never
// sees it, and a failed presentation is dropped without retry.
type MissionAlert struct {
	MissionID string    `json:"mission_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// MissionFeedWatcher turns mission-creation events into at-most-once
// alerts for one session. The watermark is the session start: only
// missions created after it qualify, which keeps pre-existing missions
// that reappear in a reordered page from re-alerting. The seen set dedupes
// by mission identity across redeliveries of the same change.
type MissionFeedWatcher struct {
	DB        *gorm.DB
	watermark time.Time
	seen      map[string]struct{}
}

func NewMissionFeedWatcher(db *gorm.DB, sessionStart time.Time) *MissionFeedWatcher {
	return &MissionFeedWatcher{
		DB:        db,
		watermark: sessionStart,
		seen:      make(map[string]struct{}),
	}
}

// Snapshot absorbs the initial feed state: every mission already visible
// at subscribe time is marked seen and produces no alert.
func (w *MissionFeedWatcher) Snapshot(missions []models.Mission) {
	for _, m := range missions {
		w.seen[m.ID] = struct{}{}
	}
}

// Classify splits a change batch into qualifying alerts. A mission alerts
// iff it has not been seen in this session and was created after the
// watermark; either way it is marked seen, so redelivery of the same batch
// yields nothing. Alerts come back oldest-first.
func (w *MissionFeedWatcher) Classify(missions []models.Mission) []MissionAlert {
	var alerts []MissionAlert
	for i := len(missions) - 1; i >= 0; i-- {
		m := missions[i]
		if _, ok := w.seen[m.ID]; ok {
			continue
		}
		w.seen[m.ID] = struct{}{}

		if !m.CreatedAt.After(w.watermark) {
			continue
		}
		alerts = append(alerts, MissionAlert{
			MissionID: m.ID,
			Title:     "🚀 Nova Missão CONNECTA",
			Body:      fmt.Sprintf("%s - Recompensa: ₵%d", m.Title, m.Reward),
			CreatedAt: m.CreatedAt,
		})
	}
	return alerts
}

func (w *MissionFeedWatcher) window() ([]models.Mission, error) {
	var missions []models.Mission
	err := w.DB.Order("created_at DESC").Limit(FeedWindowLimit).Find(&missions).Error
	return missions, err
}

// Run polls the creation-ordered feed until ctx is cancelled, sending
// qualifying alerts on out. The first poll seeds the snapshot. Poll errors
// are logged and retried next tick; out is closed on return so the
// consumer unblocks.
func (w *MissionFeedWatcher) Run(ctx context.Context, interval time.Duration, out chan<- MissionAlert) {
	defer close(out)

	if missions, err := w.window(); err != nil {
		log.Printf("[MissionFeed] snapshot error: %v", err)
	} else {
		w.Snapshot(missions)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			missions, err := w.window()
			if err != nil {
				log.Printf("[MissionFeed] poll error: %v", err)
				continue
			}
			for _, alert := range w.Classify(missions) {
				select {
				case out <- alert:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
