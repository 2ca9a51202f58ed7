package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is a registered account. ExternalID carries the identifier assigned by
// the auth provider at signup; callers fall back to ID when it is empty.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"index" json:"external_id"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Name       string    `json:"name"`
	Country    string    `json:"country"`

	InvestmentGoals   string `json:"investment_goals"`
	RiskTolerance     string `json:"risk_tolerance"`
	PreferredIndustry string `json:"preferred_industry"`

	// Raw signup payload as received on the signup event.
	SignupAttrs datatypes.JSON `json:"signup_attrs"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WatchlistItem is one tracked symbol for one user.
type WatchlistItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;index:idx_watchlist_user_symbol,unique" json:"user_id"`
	Symbol  string    `gorm:"index:idx_watchlist_user_symbol,unique" json:"symbol"`
	Company string    `json:"company"`
	AddedAt time.Time `json:"added_at"`
}

// DigestRun records the outcome of one completed digest run. Only the
// run-level result is persisted; per-recipient detail stays in logs.
type DigestRun struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Succeeded      bool           `json:"succeeded"`
	Message        string         `json:"message"`
	RecipientCount int            `json:"recipient_count"`
	SentCount      int            `json:"sent_count"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	Detail         datatypes.JSON `json:"detail"`
	CreatedAt      time.Time      `json:"created_at"`
}
