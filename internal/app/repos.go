package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/partnerhub-backend/internal/data/repos"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type Repos struct {
	Leads     repos.LeadRepo
	Documents repos.DocumentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger, cfg Config) (Repos, error) {
	log.Info("Wiring repos...")
	docs, err := repos.NewDocumentRepo(db, log, cfg.Postgres.MatchFunction)
	if err != nil {
		return Repos{}, fmt.Errorf("init document repo: %w", err)
	}
	return Repos{
		Leads:     repos.NewLeadRepo(db, log),
		Documents: docs,
	}, nil
}
