package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/partnerhub-backend/internal/data/repos/documents"
	"github.com/yungbote/partnerhub-backend/internal/data/repos/leads"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type LeadRepo = leads.LeadRepo
type DocumentRepo = documents.DocumentRepo
type MatchQuery = documents.MatchQuery

func NewLeadRepo(db *gorm.DB, log *logger.Logger) LeadRepo {
	return leads.NewLeadRepo(db, log)
}

func NewDocumentRepo(db *gorm.DB, log *logger.Logger, function string) (DocumentRepo, error) {
	return documents.NewDocumentRepo(db, log, function)
}
