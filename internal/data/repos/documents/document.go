package documents

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/yungbote/partnerhub-backend/internal/domain"
	"github.com/yungbote/partnerhub-backend/internal/platform/dbctx"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

const DefaultMatchFunction = "match_documents"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type MatchQuery struct {
	Embedding []float32
	Threshold float64
	Count     int
}

type DocumentRepo interface {
	// Match runs the similarity RPC and returns rows in the order the store ranked them.
	Match(dbc dbctx.Context, q MatchQuery) ([]types.DocumentMatch, error)
}

type documentRepo struct {
	db   *gorm.DB
	log  *logger.Logger
	stmt string
}

// NewDocumentRepo binds the repo to a similarity function; an empty name uses match_documents.
func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger, function string) (DocumentRepo, error) {
	function = strings.TrimSpace(function)
	if function == "" {
		function = DefaultMatchFunction
	}
	if !identRe.MatchString(function) {
		return nil, fmt.Errorf("invalid match function name %q", function)
	}
	return &documentRepo{
		db:   db,
		log:  baseLog.With("repo", "DocumentRepo"),
		stmt: fmt.Sprintf("SELECT id::text AS id, content, similarity FROM %s(?::vector, ?, ?)", function),
	}, nil
}

func (r *documentRepo) Match(dbc dbctx.Context, q MatchQuery) ([]types.DocumentMatch, error) {
	if len(q.Embedding) == 0 {
		return nil, fmt.Errorf("missing query embedding")
	}
	if q.Count <= 0 {
		return []types.DocumentMatch{}, nil
	}
	var out []types.DocumentMatch
	err := dbc.Conn(r.db).Raw(r.stmt, VectorLiteral(q.Embedding), q.Threshold, q.Count).Scan(&out).Error
	if err != nil {
		return nil, describeStoreError(err)
	}
	if out == nil {
		out = []types.DocumentMatch{}
	}
	return out, nil
}

// VectorLiteral renders v in pgvector text form: [0.1,0.2,...].
func VectorLiteral(v []float32) string {
	var b strings.Builder
	b.Grow(len(v)*10 + 2)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func describeStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := pgErr.Message
		if pgErr.Hint != "" {
			msg += " (" + pgErr.Hint + ")"
		}
		return fmt.Errorf("%s [%s]: %w", msg, pgErr.Code, err)
	}
	return err
}
