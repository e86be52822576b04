package identity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForUser restricts a query to rows owned by userID. Every per-user table
// carries a user_id column.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
