// handlers/mission_routes.go
package handlers

import (
	"mission-board-system/middleware"
	"mission-board-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App, missionService *services.MissionService, rankingService *services.RankingService) {
	// 🔐 Secured routes — require user context (userID), enforced via middleware
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/missions", missionService.GetMissions)
	secured.Get("/missions/:id", missionService.GetMission)

	// Leader delivery flow
	secured.Post("/missions/:id/proof", missionService.SubmitProof)

	// Coordinator evaluation
	secured.Post("/missions/:id/evaluate", missionService.EvaluateDelivery)

	// Mission CRUD (Admin only)
	secured.Post("/missions", missionService.CreateMission)
	secured.Delete("/missions/:id", missionService.DeleteMission)

	// Leaderboard, derived on demand
	secured.Get("/ranking", rankingService.GetRanking)
}
