package domain

import (
	"github.com/yungbote/partnerhub-backend/internal/domain/documents"
	"github.com/yungbote/partnerhub-backend/internal/domain/leads"
)

type (
	Lead          = leads.Lead
	DocumentMatch = documents.Match
)
