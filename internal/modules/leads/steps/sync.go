package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/partnerhub-backend/internal/data/repos"
	types "github.com/yungbote/partnerhub-backend/internal/domain"
	"github.com/yungbote/partnerhub-backend/internal/platform/dbctx"
	"github.com/yungbote/partnerhub-backend/internal/platform/hubspot"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
	"github.com/yungbote/partnerhub-backend/internal/realtime"
	"github.com/yungbote/partnerhub-backend/internal/realtime/bus"
)

var tracer = otel.Tracer("github.com/yungbote/partnerhub-backend/internal/modules/leads")

type SyncDeps struct {
	Log    *logger.Logger
	CRM    hubspot.Client
	Leads  repos.LeadRepo
	Events bus.Publisher
	Now    func() time.Time
}

type SyncInput struct {
	ObjectType string
	ObjectID   string
	// DryRun fetches and normalizes without writing or publishing.
	DryRun bool
	// Trigger is recorded on logs and events ("webhook", "replay").
	Trigger string
}

type SyncOutput struct {
	Lead    *types.Lead
	Written bool
}

// Sync fetches one CRM object, normalizes it and upserts it. Nothing is written unless the fetch
// and normalization both succeed.
func Sync(ctx context.Context, deps SyncDeps, in SyncInput) (SyncOutput, error) {
	if deps.Log == nil || deps.CRM == nil || deps.Leads == nil {
		return SyncOutput{}, fmt.Errorf("lead sync: missing deps")
	}
	objectType := ObjectTypeName(in.ObjectType)
	objectID := strings.TrimSpace(in.ObjectID)
	if objectType == "" || objectID == "" {
		return SyncOutput{}, fmt.Errorf("lead sync: missing object type or id")
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	log := deps.Log.With("object_type", objectType, "object_id", objectID, "trigger", in.Trigger)

	ctx, span := tracer.Start(ctx, "leads.sync")
	defer span.End()
	span.SetAttributes(
		attribute.String("crm.object_type", objectType),
		attribute.String("crm.object_id", objectID),
		attribute.Bool("leads.dry_run", in.DryRun),
	)
	fail := func(err error) (SyncOutput, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SyncOutput{}, err
	}

	obj, err := fetch(ctx, deps.CRM, objectType, objectID)
	if err != nil {
		return fail(fmt.Errorf("fetch crm %s %s: %w", objectType, objectID, err))
	}
	row, dropped, err := NormalizeLead(obj, now())
	if err != nil {
		return fail(fmt.Errorf("normalize crm %s %s: %w", objectType, objectID, err))
	}
	for _, d := range dropped {
		log.Warn("Unrecognized CRM value stored as NULL", "property", d.Property, "value", d.Value)
	}
	if in.DryRun {
		log.Info("Lead normalized (dry run)", "lead_id", row.ID)
		return SyncOutput{Lead: row}, nil
	}

	if err := upsert(ctx, deps.Leads, row); err != nil {
		return fail(err)
	}
	log.Info("Lead upserted", "lead_id", row.ID)

	if deps.Events != nil {
		evt := realtime.Event{
			Type:       realtime.EventLeadUpserted,
			ID:         row.ID,
			OccurredAt: row.SyncedAt,
			Data:       map[string]any{"trigger": in.Trigger, "object_type": objectType},
		}
		if row.PartnerID != nil {
			evt.Data["partner_id"] = *row.PartnerID
		}
		if err := deps.Events.Publish(ctx, evt); err != nil {
			log.Warn("Lead event publish failed", "lead_id", row.ID, "error", err)
		}
	}
	return SyncOutput{Lead: row, Written: true}, nil
}

func fetch(ctx context.Context, crm hubspot.Client, objectType, objectID string) (*hubspot.Object, error) {
	ctx, span := tracer.Start(ctx, "leads.crm_fetch")
	defer span.End()
	obj, err := crm.GetObject(ctx, objectType, objectID, LeadProperties)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return obj, err
}

func upsert(ctx context.Context, leads repos.LeadRepo, row *types.Lead) error {
	ctx, span := tracer.Start(ctx, "leads.store_upsert")
	defer span.End()
	if err := leads.Upsert(dbctx.Context{Ctx: ctx}, row); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
