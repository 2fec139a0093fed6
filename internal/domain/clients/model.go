package clients

import (
	"encoding/json"
	"time"
)

const (
	ProgramDraft = "draft"
	ProgramFinal = "final"
)

// Client is one trainee on a trainer's roster.
type Client struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index"`

	Name     string `gorm:"not null"`
	Lastname string
	Email    *string
	Goal     string
	Notes    string

	Programs []ProgramDoc `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProgramDoc is a persisted workout+diet plan for one client. Content
// holds the editor's document verbatim; generating and rendering it
// happen outside this backend.
type ProgramDoc struct {
	ID       uint `gorm:"primaryKey"`
	ClientID uint `gorm:"not null;index"`

	Title   string          `gorm:"not null"`
	Content json.RawMessage `gorm:"type:jsonb;not null;default:'{}'"`
	Status  string          `gorm:"not null;default:'draft'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
