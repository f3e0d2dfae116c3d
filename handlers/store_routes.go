// handlers/store_routes.go
package handlers

import (
	"mission-board-system/middleware"
	"mission-board-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStoreRoutes(app *fiber.App, ledgerService *services.LedgerService, userService *services.UserService) {
	// 🔓 Catalog is static — no user context, but still behind Gateway auth
	app.Get("/store/prizes", ledgerService.GetPrizeCatalog)

	secured := app.Group("/", middleware.UserContextMiddleware())

	// Coin ledger
	secured.Get("/ledger/balance", ledgerService.GetBalance)
	secured.Post("/store/redeem", ledgerService.RedeemPrize)
	secured.Get("/store/redemptions", ledgerService.GetRedemptions)

	// Profile management (Admin only)
	secured.Get("/profiles", userService.GetProfiles)
	secured.Get("/profiles/:id", userService.GetProfile)
	secured.Post("/profiles", userService.CreateProfile)
	secured.Put("/profiles/:id", userService.UpdateProfile)
	secured.Patch("/profiles/:id", userService.UpdateProfile)
	secured.Delete("/profiles/:id", userService.DeleteProfile)
}
