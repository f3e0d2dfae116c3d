package services

import (
	"errors"
	"log"

	"mission-board-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAlreadyCredited means the (user, mission) pair was credited before.
	// The submit path absorbs it: from the user's perspective the mission
	// was already delivered successfully.
	ErrAlreadyCredited = errors.New("mission reward already credited")

	// ErrInsufficientBalance rejects a debit larger than the balance.
	ErrInsufficientBalance = errors.New("insufficient coin balance")

	// ErrRewardMismatch means the credit amount disagrees with the reward
	// recorded on the mission. That is a programming error, so the credit
	// fails fast instead of paying a wrong amount.
	ErrRewardMismatch = errors.New("credit amount does not match mission reward")
)

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// EnsureLedger returns the ledger row for a user, creating it with the
// starting balance on first touch (idempotent).
func (s *LedgerService) EnsureLedger(tx *gorm.DB, userID string) (*models.UserLedger, error) {
	var ledger models.UserLedger
	err := tx.Where("user_id = ?", userID).First(&ledger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ledger = models.UserLedger{
			ID:          uuid.NewString(),
			UserID:      userID,
			CoinBalance: models.StartingCoinBalance,
		}
		if err := tx.Create(&ledger).Error; err != nil {
			return nil, err
		}
		return &ledger, nil
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// Credit pays the mission reward to a user exactly once. The MissionCredit
// insert is the idempotency key: a conflicting (user, mission) pair affects
// zero rows and the balance is untouched. Runs inside the caller's
// transaction so the mission status write and the credit commit or roll
// back together.
func (s *LedgerService) Credit(tx *gorm.DB, userID, missionID string, amount int64) error {
	var mission models.Mission
	if err := tx.Select("reward").Where("id = ?", missionID).First(&mission).Error; err != nil {
		return err
	}
	if amount != mission.Reward {
		return ErrRewardMismatch
	}

	if _, err := s.EnsureLedger(tx, userID); err != nil {
		return err
	}

	marker := models.MissionCredit{
		ID:        uuid.NewString(),
		UserID:    userID,
		MissionID: missionID,
		Amount:    amount,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "mission_id"}},
		DoNothing: true,
	}).Create(&marker)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyCredited
	}

	return tx.Model(&models.UserLedger{}).
		Where("user_id = ?", userID).
		Update("coin_balance", gorm.Expr("coin_balance + ?", amount)).Error
}

// Debit removes coins from a user's balance, e.g. for a store redemption.
// The balance guard runs inside the row update so concurrent debits cannot
// drive the balance negative.
func (s *LedgerService) Debit(userID string, amount int64) (*models.UserLedger, error) {
	var ledger models.UserLedger
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.EnsureLedger(tx, userID); err != nil {
			return err
		}

		res := tx.Model(&models.UserLedger{}).
			Where("user_id = ? AND coin_balance >= ?", userID, amount).
			Update("coin_balance", gorm.Expr("coin_balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		// Re-read inside the transaction: the guarded UPDATE may have
		// raced other commits since EnsureLedger's snapshot, so the row
		// itself is the only truthful balance.
		return tx.First(&ledger, "user_id = ?", userID).Error
	})
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// --- Handlers ---

// GetBalance returns the authenticated user's coin balance.
func (s *LedgerService) GetBalance(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var ledger *models.UserLedger
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		l, err := s.EnsureLedger(tx, userID)
		ledger = l
		return err
	})
	if err != nil {
		log.Printf("DB Error fetching ledger for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch balance"})
	}

	return c.JSON(ledger)
}

// GetPrizeCatalog lists the fixed store catalog.
func (s *LedgerService) GetPrizeCatalog(c *fiber.Ctx) error {
	return c.JSON(models.PrizeCatalog)
}

// RedeemPrize debits the prize price and records the redemption.
func (s *LedgerService) RedeemPrize(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		PrizeID int `json:"prize_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	prize, ok := models.PrizeByID(req.PrizeID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Prize not found"})
	}

	ledger, err := s.Debit(userID, prize.Price)
	if errors.Is(err, ErrInsufficientBalance) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Insufficient balance for this redemption"})
	}
	if err != nil {
		log.Printf("DB Error redeeming prize %d for %s: %v", prize.ID, userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to redeem prize"})
	}

	redemption := models.Redemption{
		ID:        uuid.NewString(),
		UserID:    userID,
		PrizeID:   prize.ID,
		PrizeName: prize.Name,
		Price:     prize.Price,
	}
	if err := s.DB.Create(&redemption).Error; err != nil {
		log.Printf("DB Error recording redemption for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record redemption"})
	}

	log.Printf("🎁 Prize redeemed: %s → %s (₵%d)", userID, prize.Name, prize.Price)
	return c.JSON(fiber.Map{"redemption": redemption, "balance": ledger.CoinBalance})
}

// GetRedemptions lists the authenticated user's redemption history,
// newest first.
func (s *LedgerService) GetRedemptions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var redemptions []models.Redemption
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&redemptions).Error; err != nil {
		log.Printf("DB Error fetching redemptions for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch redemptions"})
	}

	return c.JSON(redemptions)
}
