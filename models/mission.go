package models

import (
	"fmt"
	"strings"
	"time"
)

// MissionStatus is the lifecycle state of a mission. Values are stored with
// the dashboard's original Portuguese labels so existing data reads back.
type MissionStatus string

const (
	MissionStatusInProgress MissionStatus = "Em Andamento"
	MissionStatusDelivered  MissionStatus = "Concluída"
	MissionStatusFinalized  MissionStatus = "Finalizada"
)

// Urgency tier labels. The leading hour count drives the deadline; anything
// unrecognized falls back to the 3h tier (see services.ParseUrgencyHours).
const (
	UrgencyUrgent     = "1h - Urgente"
	UrgencyImportant  = "3h - Importante"
	UrgencyLowUrgency = "5h - Pouco Urgente"
)

// UnassignedLeaderID marks a mission visible to every leader rather than a
// specific operator.
const UnassignedLeaderID = "global"

// Mission represents a time-boxed unit of work with a coin reward.
// Title, description, urgency and reward are immutable after creation;
// status only ever moves forward.
type Mission struct {
	ID               string        `gorm:"primaryKey;type:uuid" json:"id"`
	Title            string        `gorm:"not null" json:"title"`
	Description      string        `gorm:"type:text;not null" json:"description"`
	Urgency          string        `gorm:"not null" json:"urgency"`
	Reward           int64         `gorm:"not null" json:"reward"`
	Status           MissionStatus `gorm:"not null;default:'Em Andamento';index" json:"status"`
	AssignedLeaderID string        `gorm:"index;default:'global'" json:"assigned_leader_id"`

	// Set together, exactly once, on the InProgress -> Delivered transition.
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	ProofDescription string     `gorm:"type:text" json:"proof_description,omitempty"`

	// Coordinator evaluation, set on the Delivered -> Finalized transition.
	Rating      int        `gorm:"default:0" json:"rating,omitempty"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Attachments []MissionAttachment `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// MissionAttachment is one piece of delivery evidence uploaded to R2.
type MissionAttachment struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	MissionID string    `gorm:"type:uuid;not null;index" json:"mission_id"`
	FileName  string    `gorm:"not null" json:"file_name"`
	FileURL   string    `gorm:"type:text;not null" json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationError reports a guard failure before any mutation happens.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Deliver applies the InProgress -> Delivered transition. Guards run before
// any field is touched; on failure the mission is unchanged.
func (m *Mission) Deliver(report string, attachmentCount int, now time.Time) error {
	if m.Status == MissionStatusDelivered || m.Status == MissionStatusFinalized {
		return ErrAlreadySubmitted
	}
	if strings.TrimSpace(report) == "" {
		return &ValidationError{Field: "proof_description", Message: "o relatório de execução é obrigatório"}
	}
	if attachmentCount < 1 {
		return &ValidationError{Field: "attachments", Message: "pelo menos um anexo de evidência é obrigatório"}
	}

	m.Status = MissionStatusDelivered
	m.DeliveredAt = &now
	m.ProofDescription = report
	return nil
}

// Finalize applies the Delivered -> Finalized transition. Requires a star
// rating in [1,5]; has no ledger effect.
func (m *Mission) Finalize(rating int, now time.Time) error {
	if m.Status == MissionStatusFinalized {
		return ErrMissionFinalized
	}
	if m.Status != MissionStatusDelivered {
		return ErrNotDelivered
	}
	if rating < 1 || rating > 5 {
		return &ValidationError{Field: "rating", Message: "a nota deve estar entre 1 e 5 estrelas"}
	}

	m.Status = MissionStatusFinalized
	m.Rating = rating
	m.FinalizedAt = &now
	return nil
}
