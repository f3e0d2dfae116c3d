package models

import (
	"time"
)

// ProfileType is the access role of a dashboard user.
type ProfileType string

const (
	ProfileTypeLeader      ProfileType = "Leader"
	ProfileTypeCoordinator ProfileType = "Coordinator"
	ProfileTypeAdmin       ProfileType = "Admin"
)

// The two fixed operational teams.
var Teams = []string{"Equipe da Comunicação", "Equipe do Externo"}

// UserProfile is a dashboard user. Identity issuance lives in the gateway;
// this row only carries the profile data the board needs.
type UserProfile struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	FullName    string      `gorm:"not null;index" json:"full_name"`
	Email       string      `gorm:"uniqueIndex;not null" json:"email"`
	ProfileType ProfileType `gorm:"not null;default:'Leader'" json:"profile_type"`
	Team        string      `gorm:"index" json:"team"`
	JobTitle    string      `json:"job_title"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

func ValidProfileType(t ProfileType) bool {
	switch t {
	case ProfileTypeLeader, ProfileTypeCoordinator, ProfileTypeAdmin:
		return true
	}
	return false
}

func ValidTeam(team string) bool {
	for _, t := range Teams {
		if t == team {
			return true
		}
	}
	return false
}
