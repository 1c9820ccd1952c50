package database

import (
	"time"

	"gorm.io/gorm"
)

// OwnedBy restricts a query to rows of the given user.
func OwnedBy(table, userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".user_id = ?", userID)
	}
}

// Active excludes soft-deleted rows.
func Active(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".is_deleted = ?", false)
	}
}

// CreatedBetween applies an inclusive range on created_at. Nil bounds are open.
func CreatedBetween(table string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(table+".created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where(table+".created_at <= ?", *to)
		}
		return db
	}
}
