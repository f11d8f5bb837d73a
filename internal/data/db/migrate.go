package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/partnerhub-backend/internal/domain"
)

// AutoMigrateAll creates or widens the tables this service owns.
// The document embedding table and match_documents belong to the hosted store and are never touched.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Lead{},
	)
}

func EnsureLeadIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_leads_synced_at ON leads(synced_at);`).Error; err != nil {
		return fmt.Errorf("create idx_leads_synced_at: %w", err)
	}
	return nil
}
