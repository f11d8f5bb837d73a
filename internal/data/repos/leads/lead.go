package leads

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/partnerhub-backend/internal/domain"
	"github.com/yungbote/partnerhub-backend/internal/platform/dbctx"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type LeadRepo interface {
	Upsert(dbc dbctx.Context, row *types.Lead) error
	GetByID(dbc dbctx.Context, id string) (*types.Lead, error)
	Count(dbc dbctx.Context) (int64, error)
}

type leadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo {
	return &leadRepo{db: db, log: baseLog.With("repo", "LeadRepo")}
}

// upsertColumns is every non-key column; a replayed event overwrites all of them.
var upsertColumns = []string{
	"email",
	"first_name",
	"last_name",
	"phone",
	"city",
	"school_district",
	"partner_id",
	"child_name",
	"child_grade",
	"lead_source",
	"lead_status",
	"created_at",
	"updated_at",
	"raw_payload",
	"synced_at",
}

func (r *leadRepo) Upsert(dbc dbctx.Context, row *types.Lead) error {
	if row == nil {
		return fmt.Errorf("missing lead")
	}
	row.ID = strings.TrimSpace(row.ID)
	if row.ID == "" {
		return fmt.Errorf("missing lead id")
	}
	if row.SyncedAt.IsZero() {
		row.SyncedAt = time.Now().UTC()
	}
	err := dbc.Conn(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(row).Error
	if err != nil {
		r.log.Error("Lead upsert failed", "lead_id", row.ID, "error", err)
		return fmt.Errorf("upsert lead %s: %w", row.ID, err)
	}
	return nil
}

// GetByID returns (nil, nil) when no row exists.
func (r *leadRepo) GetByID(dbc dbctx.Context, id string) (*types.Lead, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("missing lead id")
	}
	var out types.Lead
	err := dbc.Conn(r.db).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *leadRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&types.Lead{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
