package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PermissionDefault = "default"
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

// Preference is the user's notification permission. A missing row means
// "default".
type Preference struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Permission string    `gorm:"size:10;not null" json:"permission"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Preference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Notification is a delivered alert kept for the inbox.
type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ReminderID string     `gorm:"size:36;index" json:"reminder_id"`
	Title      string     `gorm:"size:200;not null" json:"title"`
	Body       string     `gorm:"type:text" json:"body"`
	ReadAt     *time.Time `json:"read_at"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// --- DTOs ---

type PermissionRequest struct {
	Permission string `json:"permission"`
}

type PermissionResponse struct {
	Permission string `json:"permission"`
}

type InboxResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	Unread        int64          `json:"unread"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
}
