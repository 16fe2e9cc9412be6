package entities

import (
	"time"
)

// PersistedState is one serialized store slice kept across restarts.
type PersistedState struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     []byte    `gorm:"type:blob" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PersistedState) TableName() string {
	return "persisted_states"
}

// Known state keys
const (
	StateKeyAuth      = "auth"
	StateKeySelection = "selection"

	// Salt for passphrase-derived encryption keys
	StateKeyKDFSalt = "kdf_salt"
)
