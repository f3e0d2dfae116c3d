package services

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"time"

	"mission-board-system/models"
	"mission-board-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type MissionService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewMissionService(db *gorm.DB, ledger *LedgerService) *MissionService {
	return &MissionService{DB: db, Ledger: ledger}
}

// MissionView decorates a mission with its freshly evaluated deadline.
type MissionView struct {
	models.Mission
	Deadline DeadlineStatus `json:"deadline"`
}

func viewOf(m models.Mission, now time.Time) MissionView {
	return MissionView{
		Mission:  m,
		Deadline: EvaluateDeadline(m.CreatedAt, m.Urgency, now, m.Status),
	}
}

// --- Admin Handlers ---

// CreateMission creates a new mission (Admin only). Title, description,
// urgency and reward are immutable after this point.
func (s *MissionService) CreateMission(c *fiber.Ctx) error {
	var req struct {
		Title            string `json:"title" validate:"required"`
		Description      string `json:"description" validate:"required"`
		Urgency          string `json:"urgency"`
		Reward           int64  `json:"reward"`
		AssignedLeaderID string `json:"assigned_leader_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required", "field": "title"})
	}
	if req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Description is required", "field": "description"})
	}
	if req.Reward < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reward must not be negative", "field": "reward"})
	}
	if req.Urgency == "" {
		req.Urgency = models.UrgencyImportant
	}
	if req.AssignedLeaderID == "" {
		req.AssignedLeaderID = models.UnassignedLeaderID
	}

	mission := &models.Mission{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Description:      req.Description,
		Urgency:          req.Urgency,
		Reward:           req.Reward,
		Status:           models.MissionStatusInProgress,
		AssignedLeaderID: req.AssignedLeaderID,
	}

	if err := s.DB.Create(mission).Error; err != nil {
		log.Printf("DB Error creating mission: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create mission"})
	}

	log.Printf("🚀 Mission created: %s (%s, ₵%d)", mission.Title, mission.Urgency, mission.Reward)
	return c.Status(fiber.StatusCreated).JSON(viewOf(*mission, time.Now()))
}

// DeleteMission removes a mission permanently, from any state. A delivered
// mission's reward is intentionally not clawed back.
func (s *MissionService) DeleteMission(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission ID"})
	}

	var mission models.Mission
	if err := s.DB.First(&mission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&mission).Error; err != nil {
		log.Printf("DB Error deleting mission %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete mission"})
	}

	return c.JSON(fiber.Map{"message": "Mission deleted successfully"})
}

// --- User Handlers ---

// GetMissions lists missions newest-first with a bounded limit, optionally
// filtered by status. Each entry carries a freshly evaluated deadline.
func (s *MissionService) GetMissions(c *fiber.Ctx) error {
	limit := 4 // leader panel default
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 || l > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid limit parameter"})
		}
		limit = l
	}

	query := s.DB.Preload("Attachments").Order("created_at DESC").Limit(limit)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if leaderID := c.Query("leader_id"); leaderID != "" {
		query = query.Where("assigned_leader_id IN ?", []string{leaderID, models.UnassignedLeaderID})
	}

	var missions []models.Mission
	if err := query.Find(&missions).Error; err != nil {
		log.Printf("DB Error fetching missions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch missions"})
	}

	now := time.Now()
	views := make([]MissionView, len(missions))
	for i, m := range missions {
		views[i] = viewOf(m, now)
	}
	return c.JSON(views)
}

// GetMission returns one mission with its evaluated deadline.
func (s *MissionService) GetMission(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission ID"})
	}

	var mission models.Mission
	if err := s.DB.Preload("Attachments").First(&mission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(viewOf(mission, time.Now()))
}

// SubmitProof handles the InProgress -> Delivered transition. Multipart
// form: "proof_description" plus at least one file under "attachments".
// Validation runs before any upload or write; the status change and the
// reward credit then commit in one transaction, so neither can land
// without the other.
func (s *MissionService) SubmitProof(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	missionID := c.Params("id")
	if _, err := uuid.Parse(missionID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission ID"})
	}

	report := c.FormValue("proof_description")
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid multipart form"})
	}
	files := form.File["attachments"]

	// Guard check before any side effect, on an unmutated copy.
	var current models.Mission
	if err := s.DB.First(&current, "id = ?", missionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := dryRunDeliver(current, report, len(files)); err != nil {
		return deliverErrorResponse(c, err)
	}

	// Evidence goes to R2 first; an upload failure fails the submit with
	// zero state change.
	attachments, err := s.uploadEvidence(current, files)
	if err != nil {
		log.Printf("R2 Error uploading evidence for mission %s: %v", missionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload evidence"})
	}

	mission, err := s.DeliverMission(userID, missionID, report, attachments)
	if err != nil {
		return deliverErrorResponse(c, err)
	}

	log.Printf("✅ Mission delivered: %s by %s (+₵%d)", mission.Title, userID, mission.Reward)
	return c.JSON(viewOf(*mission, time.Now()))
}

// DeliverMission runs the guarded transition and the ledger credit as one
// atomic unit of work. The row is re-read inside the transaction, so a
// duplicate submit that lost the race fails on the status guard and rolls
// back; a duplicate credit is absorbed via the idempotency marker.
func (s *MissionService) DeliverMission(userID, missionID, report string, attachments []models.MissionAttachment) (*models.Mission, error) {
	var delivered *models.Mission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var mission models.Mission
		if err := tx.First(&mission, "id = ?", missionID).Error; err != nil {
			return err
		}

		if err := mission.Deliver(report, len(attachments), time.Now()); err != nil {
			return err
		}

		res := tx.Model(&models.Mission{}).
			Where("id = ? AND status = ?", missionID, models.MissionStatusInProgress).
			Updates(map[string]interface{}{
				"status":            mission.Status,
				"delivered_at":      mission.DeliveredAt,
				"proof_description": mission.ProofDescription,
			})
		if err := applyTransition(res, models.ErrAlreadySubmitted); err != nil {
			return err
		}

		for i := range attachments {
			attachments[i].MissionID = missionID
		}
		if err := tx.Create(&attachments).Error; err != nil {
			return err
		}

		if err := s.Ledger.Credit(tx, userID, missionID, mission.Reward); err != nil {
			if !errors.Is(err, ErrAlreadyCredited) {
				return err
			}
			// Already paid on an earlier delivery; not a failure.
			log.Printf("⚠️  Duplicate credit absorbed for mission %s, user %s", missionID, userID)
		}

		mission.Attachments = attachments
		delivered = &mission
		return nil
	})
	if err != nil {
		return nil, err
	}
	return delivered, nil
}

// EvaluateDelivery handles the Delivered -> Finalized transition
// (Coordinator only). Requires a star rating in [1,5]; no ledger effect.
func (s *MissionService) EvaluateDelivery(c *fiber.Ctx) error {
	missionID := c.Params("id")
	if _, err := uuid.Parse(missionID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission ID"})
	}

	var req struct {
		Rating int `json:"rating" validate:"required,min=1,max=5"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var finalized *models.Mission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var mission models.Mission
		if err := tx.First(&mission, "id = ?", missionID).Error; err != nil {
			return err
		}
		if err := mission.Finalize(req.Rating, time.Now()); err != nil {
			return err
		}
		res := tx.Model(&models.Mission{}).
			Where("id = ? AND status = ?", missionID, models.MissionStatusDelivered).
			Updates(map[string]interface{}{
				"status":       mission.Status,
				"rating":       mission.Rating,
				"finalized_at": mission.FinalizedAt,
			})
		if err := applyTransition(res, models.ErrMissionFinalized); err != nil {
			return err
		}
		finalized = &mission
		return nil
	})
	if err != nil {
		var vErr *models.ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Message, "field": vErr.Field})
		case errors.Is(err, models.ErrMissionFinalized):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Mission already finalized"})
		case errors.Is(err, models.ErrNotDelivered):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Mission has not been delivered yet"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
		}
		log.Printf("DB Error evaluating mission %s: %v", missionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to evaluate delivery"})
	}

	log.Printf("⭐ Mission evaluated: %s → %d stars", finalized.Title, finalized.Rating)
	return c.JSON(viewOf(*finalized, time.Now()))
}

func (s *MissionService) uploadEvidence(mission models.Mission, files []*multipart.FileHeader) ([]models.MissionAttachment, error) {
	attachments := make([]models.MissionAttachment, 0, len(files))
	for _, file := range files {
		id := uuid.NewString()
		key := fmt.Sprintf("evidence/%s/%s%s", slug.Make(mission.Title), id, filepath.Ext(file.Filename))
		url, err := utils.UploadFileToR2(file, key)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, models.MissionAttachment{
			ID:       id,
			FileName: file.Filename,
			FileURL:  url,
		})
	}
	return attachments, nil
}

// applyTransition guards a status-predicated UPDATE inside a transaction.
// Zero matched rows means a concurrent writer moved the mission out of the
// expected state between the read and the update; the whole transaction
// rolls back with the conflict error instead of committing side effects
// for a transition that never happened.
func applyTransition(res *gorm.DB, conflict error) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return conflict
	}
	return nil
}

func dryRunDeliver(m models.Mission, report string, attachmentCount int) error {
	return m.Deliver(report, attachmentCount, time.Now())
}

func deliverErrorResponse(c *fiber.Ctx, err error) error {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Message, "field": vErr.Field})
	case errors.Is(err, models.ErrAlreadySubmitted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Mission already delivered"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
	}
	log.Printf("DB Error delivering mission: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit proof"})
}
