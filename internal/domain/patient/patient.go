package patient

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// Patient is the dental patient profile hanging off a user account.
type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft delete

	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	FullName string `gorm:"column:full_name;type:varchar(200);not null"`
	Age      int    `gorm:"column:age"`
	Gender   Gender `gorm:"column:gender;type:varchar(20);default:'unknown'"`

	Allergies []string `gorm:"column:allergies;serializer:json"`
	Notes     string   `gorm:"column:notes;type:text"` // PHI
}

func (Patient) TableName() string {
	return "clinical.patients"
}

type CreatePatientCommand struct {
	UserID   uuid.UUID
	FullName string
	Age      int
	Gender   Gender
}
