// handlers/notification_routes.go
package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mission-board-system/middleware"
	"mission-board-system/models"
	"mission-board-system/services"
	"mission-board-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedPollInterval is how often each alert stream checks the mission feed.
const FeedPollInterval = 2 * time.Second

func SetupNotificationRoutes(app *fiber.App, db *gorm.DB) {
	secured := app.Group("/", middleware.UserContextMiddleware())
	secured.Get("/notifications/stream", streamMissionAlerts(db))
	secured.Get("/missions/:id/deadline/stream", streamDeadline(db))
}

// streamMissionAlerts pushes "new mission" alerts to one session over SSE.
// The session watermark is the connection time: missions that existed
// before it never alert, each qualifying mission alerts at most once, and
// a failed write just ends the stream — no retry, no backlog.
func streamMissionAlerts(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// SSE headers
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		watcher := workers.NewMissionFeedWatcher(db, time.Now())
		done := c.Context().Done()

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			alerts := make(chan workers.MissionAlert)
			go watcher.Run(ctx, FeedPollInterval, alerts)

			// Initial keepalive (comment event)
			w.WriteString(":\n\n")
			if err := w.Flush(); err != nil {
				return
			}

			for {
				select {
				case alert, ok := <-alerts:
					if !ok {
						return
					}
					payload, _ := json.Marshal(alert)
					fmt.Fprintf(w, "event: mission\ndata: %s\n\n", payload)
					if err := w.Flush(); err != nil {
						// Client disconnected; drop silently.
						return
					}
				case <-done:
					return
				}
			}
		})

		return nil
	}
}

// streamDeadline pushes the countdown for a single mission over SSE, one
// frame per minute. Delivered and expired are terminal: their frame is
// the last one and the server closes the stream after it.
func streamDeadline(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		missionID := c.Params("id")
		if _, err := uuid.Parse(missionID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission ID"})
		}

		var mission models.Mission
		if err := db.First(&mission, "id = ?", missionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		done := c.Context().Done()

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			ticks := services.WatchDeadline(ctx, mission)
			for {
				select {
				case status, ok := <-ticks:
					if !ok {
						return
					}
					payload, _ := json.Marshal(status)
					fmt.Fprintf(w, "event: deadline\ndata: %s\n\n", payload)
					if err := w.Flush(); err != nil {
						// Client disconnected; drop silently.
						return
					}
					if status.Delivered || status.Expired {
						return
					}
				case <-done:
					return
				}
			}
		})

		return nil
	}
}
