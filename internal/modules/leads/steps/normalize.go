package steps

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/partnerhub-backend/internal/domain"
	"github.com/yungbote/partnerhub-backend/internal/platform/hubspot"
)

// CRM property names requested on every fetch, in the order the lead columns are declared.
const (
	PropEmail          = "email"
	PropFirstName      = "firstname"
	PropLastName       = "lastname"
	PropPhone          = "phone"
	PropCity           = "city"
	PropSchoolDistrict = "school_district"
	PropPartnerID      = "partner_id"
	PropChildName      = "child_name"
	PropChildGrade     = "child_grade"
	PropLeadSource     = "lead_source"
	PropLeadStatus     = "hs_lead_status"
	PropCreateDate     = "createdate"
	PropLastModified   = "lastmodifieddate"
)

var LeadProperties = []string{
	PropEmail,
	PropFirstName,
	PropLastName,
	PropPhone,
	PropCity,
	PropSchoolDistrict,
	PropPartnerID,
	PropChildName,
	PropChildGrade,
	PropLeadSource,
	PropLeadStatus,
	PropCreateDate,
	PropLastModified,
}

// DroppedValue is a CRM value that could not be mapped and was stored as NULL.
type DroppedValue struct {
	Property string
	Value    string
}

// NormalizeLead maps a fetched CRM object onto a lead row. Missing, null and blank properties
// become nil so every column is written explicitly. Unrecognized timestamps also become nil and
// are reported in the returned slice.
func NormalizeLead(obj *hubspot.Object, syncedAt time.Time) (*types.Lead, []DroppedValue, error) {
	if obj == nil {
		return nil, nil, fmt.Errorf("missing crm object")
	}
	id := strings.TrimSpace(obj.ID)
	if id == "" {
		return nil, nil, fmt.Errorf("crm object has no id")
	}

	var dropped []DroppedValue
	created, bad := leadTime(obj.Property(PropCreateDate), obj.CreatedAt)
	if bad != "" {
		dropped = append(dropped, DroppedValue{Property: PropCreateDate, Value: bad})
	}
	updated, bad := leadTime(obj.Property(PropLastModified), obj.UpdatedAt)
	if bad != "" {
		dropped = append(dropped, DroppedValue{Property: PropLastModified, Value: bad})
	}

	raw := datatypes.JSON(obj.Raw)
	if len(raw) == 0 {
		raw = nil
	}

	return &types.Lead{
		ID:             id,
		Email:          obj.Property(PropEmail),
		FirstName:      obj.Property(PropFirstName),
		LastName:       obj.Property(PropLastName),
		Phone:          obj.Property(PropPhone),
		City:           obj.Property(PropCity),
		SchoolDistrict: obj.Property(PropSchoolDistrict),
		PartnerID:      obj.Property(PropPartnerID),
		ChildName:      obj.Property(PropChildName),
		ChildGrade:     obj.Property(PropChildGrade),
		LeadSource:     obj.Property(PropLeadSource),
		LeadStatus:     obj.Property(PropLeadStatus),
		CRMCreatedAt:   created,
		CRMUpdatedAt:   updated,
		RawPayload:     raw,
		SyncedAt:       syncedAt.UTC(),
	}, dropped, nil
}

// leadTime prefers the property value and falls back to the record-level timestamp. An
// unparseable value yields nil plus the offending text.
func leadTime(prop *string, fallback string) (*time.Time, string) {
	s := fallback
	if prop != nil {
		s = *prop
	}
	t, err := ParseCRMTime(s)
	if err != nil {
		return nil, strings.TrimSpace(s)
	}
	return t, ""
}

// ParseCRMTime accepts epoch milliseconds, RFC 3339 (with or without fractional seconds) and a
// bare date. Blank input yields nil. The result is always UTC.
func ParseCRMTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z0700", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", s)
}
