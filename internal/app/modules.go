package app

import (
	"github.com/yungbote/partnerhub-backend/internal/modules/chat"
	"github.com/yungbote/partnerhub-backend/internal/modules/leads"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type Modules struct {
	Leads leads.Usecases
	Chat  chat.Usecases
}

func wireModules(log *logger.Logger, clients Clients, reposet Repos) Modules {
	log.Info("Wiring modules...")
	return Modules{
		Leads: leads.New(leads.UsecasesDeps{
			Log:    log.With("module", "leads"),
			CRM:    clients.HubSpot,
			Leads:  reposet.Leads,
			Events: clients.Events,
		}),
		Chat: chat.New(chat.UsecasesDeps{
			Log:  log.With("module", "chat"),
			AI:   clients.AI,
			Docs: reposet.Documents,
		}),
	}
}
