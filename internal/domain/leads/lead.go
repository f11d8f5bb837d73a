package leads

import (
	"time"

	"gorm.io/datatypes"
)

// Lead is a CRM contact normalized for the partner dashboard.
// ID is the CRM object id; every other column is nullable and written as NULL when the CRM has no value.
type Lead struct {
	ID string `gorm:"column:id;type:text;primaryKey" json:"id"`

	Email          *string `gorm:"column:email;type:text;index" json:"email"`
	FirstName      *string `gorm:"column:first_name;type:text" json:"first_name"`
	LastName       *string `gorm:"column:last_name;type:text" json:"last_name"`
	Phone          *string `gorm:"column:phone;type:text" json:"phone"`
	City           *string `gorm:"column:city;type:text" json:"city"`
	SchoolDistrict *string `gorm:"column:school_district;type:text" json:"school_district"`
	PartnerID      *string `gorm:"column:partner_id;type:text;index" json:"partner_id"`
	ChildName      *string `gorm:"column:child_name;type:text" json:"child_name"`
	ChildGrade     *string `gorm:"column:child_grade;type:text" json:"child_grade"`
	LeadSource     *string `gorm:"column:lead_source;type:text" json:"lead_source"`
	LeadStatus     *string `gorm:"column:lead_status;type:text;index" json:"lead_status"`

	// CRM-side timestamps, not managed by gorm.
	CRMCreatedAt *time.Time `gorm:"column:created_at" json:"created_at"`
	CRMUpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`

	RawPayload datatypes.JSON `gorm:"column:raw_payload" json:"raw_payload"`

	SyncedAt time.Time `gorm:"column:synced_at;not null" json:"synced_at"`
}

func (Lead) TableName() string { return "leads" }
