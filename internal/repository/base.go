// Package repository provides data access layer implementations for the application.
package repository

import "gorm.io/gorm"

// paginate caps limit/offset so a single list call cannot scan the table.
func paginate(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return db.Limit(limit).Offset(offset)
}
