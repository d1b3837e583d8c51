package owner

import "gorm.io/gorm"

// ForOwner returns a GORM scope that filters by user_id. An empty owner
// leaves the query unscoped.
func ForOwner(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == "" {
			return db
		}
		return db.Where("user_id = ?", userID)
	}
}
