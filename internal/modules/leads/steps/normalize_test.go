package steps

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/yungbote/partnerhub-backend/internal/platform/hubspot"
)

func decodeObject(t *testing.T, raw string) *hubspot.Object {
	t.Helper()
	var obj hubspot.Object
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		t.Fatalf("decode object: %v", err)
	}
	obj.Raw = json.RawMessage(raw)
	return &obj
}

func TestNormalizeLeadNullsMissingFields(t *testing.T) {
	obj := decodeObject(t, `{
		"id": "42",
		"properties": {"email": "a@b.com", "firstname": "A", "lastname": null, "phone": "  "},
		"createdAt": "2024-01-01T00:00:00.000Z",
		"updatedAt": "2024-01-02T03:04:05.678Z"
	}`)
	synced := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	lead, dropped, err := NormalizeLead(obj, synced)
	if err != nil || len(dropped) != 0 {
		t.Fatalf("NormalizeLead: dropped=%v err=%v", dropped, err)
	}
	if lead.ID != "42" || lead.Email == nil || *lead.Email != "a@b.com" || lead.FirstName == nil || *lead.FirstName != "A" {
		t.Fatalf("lead: %+v", lead)
	}
	for name, v := range map[string]*string{
		"last_name":       lead.LastName,
		"phone":           lead.Phone,
		"city":            lead.City,
		"school_district": lead.SchoolDistrict,
		"partner_id":      lead.PartnerID,
		"child_name":      lead.ChildName,
		"child_grade":     lead.ChildGrade,
		"lead_source":     lead.LeadSource,
		"lead_status":     lead.LeadStatus,
	} {
		if v != nil {
			t.Fatalf("%s: expected nil, got %q", name, *v)
		}
	}
	if lead.CRMCreatedAt == nil || !lead.CRMCreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("created_at: %v", lead.CRMCreatedAt)
	}
	if lead.CRMUpdatedAt == nil || lead.CRMUpdatedAt.Nanosecond() != 678000000 {
		t.Fatalf("updated_at: %v", lead.CRMUpdatedAt)
	}
	if string(lead.RawPayload) != string(obj.Raw) {
		t.Fatalf("raw payload not preserved")
	}
	if !lead.SyncedAt.Equal(synced) {
		t.Fatalf("synced_at: %v", lead.SyncedAt)
	}
}

func TestNormalizeLeadPropertyTimestampWins(t *testing.T) {
	obj := decodeObject(t, `{
		"id": "7",
		"properties": {"createdate": "1704067200000", "lastmodifieddate": "2024-03-01T10:00:00+02:00", "hs_lead_status": "NEW"},
		"createdAt": "2020-01-01T00:00:00Z"
	}`)
	lead, _, err := NormalizeLead(obj, time.Now())
	if err != nil {
		t.Fatalf("NormalizeLead: %v", err)
	}
	if !lead.CRMCreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("created_at: %v", lead.CRMCreatedAt)
	}
	if lead.CRMUpdatedAt.Location() != time.UTC || lead.CRMUpdatedAt.Hour() != 8 {
		t.Fatalf("updated_at not converted to UTC: %v", lead.CRMUpdatedAt)
	}
	if lead.LeadStatus == nil || *lead.LeadStatus != "NEW" {
		t.Fatalf("lead_status: %v", lead.LeadStatus)
	}
}

func TestNormalizeLeadRejects(t *testing.T) {
	if _, _, err := NormalizeLead(nil, time.Now()); err == nil {
		t.Fatal("expected error for nil object")
	}
	if _, _, err := NormalizeLead(&hubspot.Object{}, time.Now()); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestNormalizeLeadUnparseableTimestampIsNull(t *testing.T) {
	obj := decodeObject(t, `{
		"id": "42",
		"properties": {"email": "a@b.com", "createdate": "01/02/2024"},
		"updatedAt": "yesterday"
	}`)
	lead, dropped, err := NormalizeLead(obj, time.Now())
	if err != nil {
		t.Fatalf("NormalizeLead: %v", err)
	}
	if lead.CRMCreatedAt != nil || lead.CRMUpdatedAt != nil {
		t.Fatalf("timestamps: created=%v updated=%v", lead.CRMCreatedAt, lead.CRMUpdatedAt)
	}
	if lead.Email == nil || *lead.Email != "a@b.com" {
		t.Fatalf("email: %v", lead.Email)
	}
	if len(dropped) != 2 || dropped[0] != (DroppedValue{Property: PropCreateDate, Value: "01/02/2024"}) || dropped[1].Property != PropLastModified {
		t.Fatalf("dropped: %+v", dropped)
	}
}

func TestParseCRMTime(t *testing.T) {
	got, err := ParseCRMTime("")
	if err != nil || got != nil {
		t.Fatalf("blank: got=%v err=%v", got, err)
	}
	got, err = ParseCRMTime("2024-05-06")
	if err != nil || got.Day() != 6 {
		t.Fatalf("date: got=%v err=%v", got, err)
	}
}
