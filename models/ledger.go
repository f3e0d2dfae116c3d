package models

import (
	"time"
)

// StartingCoinBalance is granted when a ledger is first created for a
// profile.
const StartingCoinBalance = 1250

// UserLedger holds the coin balance for one user. Credited on mission
// delivery, debited on store redemptions; never goes negative. The row is
// created together with the profile and lives as long as the profile does.
type UserLedger struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CoinBalance int64     `gorm:"not null;default:0" json:"coin_balance"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// MissionCredit is the durable idempotency marker for reward credits: one
// row per (user, mission) pair, enforced by the composite unique index.
// A second credit attempt conflicts on insert and is ignored, so retries
// and redeliveries can never double-pay.
type MissionCredit struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_mission" json:"user_id"`
	MissionID string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_mission" json:"mission_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Redemption records a store prize bought with coins.
type Redemption struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	PrizeID   int       `gorm:"not null" json:"prize_id"`
	PrizeName string    `gorm:"not null" json:"prize_name"`
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// StorePrize is a fixed catalog entry, redeemable for coins.
type StorePrize struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// PrizeCatalog mirrors the dashboard's store page.
var PrizeCatalog = []StorePrize{
	{ID: 1, Name: "Voucher Coffee Break", Price: 150, Description: "Vale café e acompanhamento na rede parceira."},
	{ID: 2, Name: "Almoço VIP", Price: 450, Description: "Almoço completo com acompanhante."},
	{ID: 3, Name: "Dia de Home Office Extra", Price: 750, Description: "Liberação de um dia extra de trabalho remoto."},
	{ID: 4, Name: "Viagem de Fim de Semana", Price: 1000, Description: "Pacote completo para destino nacional parceiro."},
}

func PrizeByID(id int) (StorePrize, bool) {
	for _, p := range PrizeCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return StorePrize{}, false
}
