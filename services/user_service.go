package services

import (
	"errors"
	"log"

	"mission-board-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewUserService(db *gorm.DB, ledger *LedgerService) *UserService {
	return &UserService{DB: db, Ledger: ledger}
}

// CreateProfile creates a dashboard user (Admin only). The coin ledger is
// created in the same transaction with the starting balance.
func (s *UserService) CreateProfile(c *fiber.Ctx) error {
	var req struct {
		FullName    string             `json:"full_name" validate:"required"`
		Email       string             `json:"email" validate:"required,email"`
		ProfileType models.ProfileType `json:"profile_type" validate:"required,oneof=Leader Coordinator Admin"`
		Team        string             `json:"team"`
		JobTitle    string             `json:"job_title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.FullName == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Full name and email are required"})
	}
	if !models.ValidProfileType(req.ProfileType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile type", "field": "profile_type"})
	}
	if req.Team != "" && !models.ValidTeam(req.Team) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown team", "field": "team"})
	}

	profile := &models.UserProfile{
		ID:          uuid.NewString(),
		FullName:    req.FullName,
		Email:       req.Email,
		ProfileType: req.ProfileType,
		Team:        req.Team,
		JobTitle:    req.JobTitle,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		_, err := s.Ledger.EnsureLedger(tx, profile.ID)
		return err
	})
	if err != nil {
		log.Printf("DB Error creating profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// GetProfiles lists all profiles ordered by name, optionally filtered by
// role or team.
func (s *UserService) GetProfiles(c *fiber.Ctx) error {
	query := s.DB.Order("full_name ASC")
	if role := c.Query("profile_type"); role != "" {
		query = query.Where("profile_type = ?", role)
	}
	if team := c.Query("team"); team != "" {
		query = query.Where("team = ?", team)
	}

	var profiles []models.UserProfile
	if err := query.Find(&profiles).Error; err != nil {
		log.Printf("DB Error fetching profiles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profiles"})
	}

	return c.JSON(profiles)
}

// GetProfile returns one profile by ID.
func (s *UserService) GetProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(profile)
}

// UpdateProfile updates mutable profile fields (Admin only).
func (s *UserService) UpdateProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		FullName    *string             `json:"full_name"`
		Email       *string             `json:"email"`
		ProfileType *models.ProfileType `json:"profile_type"`
		Team        *string             `json:"team"`
		JobTitle    *string             `json:"job_title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Email != nil {
		profile.Email = *req.Email
	}
	if req.ProfileType != nil {
		if !models.ValidProfileType(*req.ProfileType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile type", "field": "profile_type"})
		}
		profile.ProfileType = *req.ProfileType
	}
	if req.Team != nil {
		if *req.Team != "" && !models.ValidTeam(*req.Team) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown team", "field": "team"})
		}
		profile.Team = *req.Team
	}
	if req.JobTitle != nil {
		profile.JobTitle = *req.JobTitle
	}

	if err := s.DB.Save(&profile).Error; err != nil {
		log.Printf("DB Error updating profile %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(profile)
}

// DeleteProfile removes a profile and its ledger rows (the ledger lives
// exactly as long as the profile).
func (s *UserService) DeleteProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		if err := tx.First(&profile, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserLedger{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.MissionCredit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&profile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		log.Printf("DB Error deleting profile %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile deleted successfully"})
}
