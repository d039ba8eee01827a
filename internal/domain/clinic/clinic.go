package clinic

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is an organization account: a dental practice that employs doctors
// and keeps supply inventory. New clinics and address changes go through an
// admin approval workflow; the live address only changes once an admin
// approves the pending one.
type Clinic struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	OwnerID uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`

	Name    string  `gorm:"column:name;type:varchar(200);not null;index"`
	Address string  `gorm:"column:address;type:text"`
	Pincode string  `gorm:"column:pincode;type:varchar(10)"`
	Lat     float64 `gorm:"column:lat;default:0"`
	Lng     float64 `gorm:"column:lng;default:0"`

	IsVerified bool `gorm:"column:is_verified;default:false;index"`

	PendingAddress *string  `gorm:"column:pending_address;type:text"`
	PendingPincode *string  `gorm:"column:pending_pincode;type:varchar(10)"`
	PendingLat     *float64 `gorm:"column:pending_lat"`
	PendingLng     *float64 `gorm:"column:pending_lng"`
}

func (Clinic) TableName() string {
	return "clinical.clinics"
}

// HasPendingChange reports whether an address change awaits admin approval.
func (c *Clinic) HasPendingChange() bool {
	return c.PendingAddress != nil
}

// ApprovePending promotes the pending address fields to live values.
func (c *Clinic) ApprovePending() {
	if c.PendingAddress != nil {
		c.Address = *c.PendingAddress
		c.PendingAddress = nil
	}
	if c.PendingPincode != nil {
		c.Pincode = *c.PendingPincode
		c.PendingPincode = nil
	}
	if c.PendingLat != nil {
		c.Lat = *c.PendingLat
		c.PendingLat = nil
	}
	if c.PendingLng != nil {
		c.Lng = *c.PendingLng
		c.PendingLng = nil
	}
	c.IsVerified = true
}

type CreateClinicCommand struct {
	OwnerID uuid.UUID
	Name    string
	Address string
	Pincode string
	Lat     float64
	Lng     float64
}
