package leads

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/partnerhub-backend/internal/data/repos"
	"github.com/yungbote/partnerhub-backend/internal/modules/leads/steps"
	"github.com/yungbote/partnerhub-backend/internal/platform/apierr"
	"github.com/yungbote/partnerhub-backend/internal/platform/hubspot"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
	"github.com/yungbote/partnerhub-backend/internal/realtime/bus"
)

type UsecasesDeps struct {
	Log    *logger.Logger
	CRM    hubspot.Client
	Leads  repos.LeadRepo
	Events bus.Publisher

	// Now is overridable for tests.
	Now func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	WebhookEvent = steps.WebhookEvent
	SyncInput    = steps.SyncInput
	SyncOutput   = steps.SyncOutput
)

type IngestOutput struct {
	ContactID string
	Event     WebhookEvent
	Written   bool
}

const (
	CodeInvalidPayload = "invalid_payload"
)

// IngestWebhook validates a raw CRM notification and syncs the object named by its first event.
// Validation failures come back as *apierr.Error with status 400.
func (u Usecases) IngestWebhook(ctx context.Context, raw []byte) (IngestOutput, error) {
	evt, count, err := steps.ParseWebhook(raw)
	if err != nil {
		msg := "Invalid payload"
		if errors.Is(err, steps.ErrIncompleteEvent) {
			msg = "Missing required fields"
		}
		return IngestOutput{}, apierr.BadRequest(CodeInvalidPayload, msg, err)
	}
	if count > 1 {
		u.deps.Log.Debug("Webhook batch contains extra events; syncing first only", "count", count)
	}

	out, err := u.Sync(ctx, SyncInput{
		ObjectType: evt.ObjectTypeID,
		ObjectID:   evt.ObjectID,
		Trigger:    "webhook",
	})
	if err != nil {
		return IngestOutput{}, err
	}
	return IngestOutput{ContactID: out.Lead.ID, Event: evt, Written: out.Written}, nil
}

func (u Usecases) Sync(ctx context.Context, in SyncInput) (SyncOutput, error) {
	return steps.Sync(ctx, steps.SyncDeps{
		Log:    u.deps.Log,
		CRM:    u.deps.CRM,
		Leads:  u.deps.Leads,
		Events: u.deps.Events,
		Now:    u.deps.Now,
	}, in)
}
