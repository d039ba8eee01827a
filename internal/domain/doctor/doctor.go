package doctor

import (
	"time"

	"github.com/google/uuid"

	"github.com/alshifa-health/clinic-api/internal/schedule"
)

// Doctor is a practicing dentist attached to a clinic. Besides identity and
// credentialing, the record owns the schedule configuration the slot engine
// consumes: working window, per-visit duration and break policy.
type Doctor struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ClinicID uuid.UUID `gorm:"column:clinic_id;type:uuid;not null;index"`

	FullName       string `gorm:"column:full_name;type:varchar(200);not null"`
	Specialization string `gorm:"column:specialization;type:varchar(100)"`
	LicenseNumber  string `gorm:"column:license_number;type:varchar(50)"`

	// Admin approval gate: unverified doctors never appear in public listings
	// or the slot search.
	IsVerified bool `gorm:"column:is_verified;default:false;index"`

	// Schedule configuration. Stored as raw strings/ints; schedule.ParseConfig
	// normalizes them and falls back to defaults on malformed values, so a
	// corrupt row degrades gracefully rather than breaking the calendar.
	WorkStartTime     string                     `gorm:"column:work_start_time;type:varchar(5);default:'09:00'"`
	WorkEndTime       string                     `gorm:"column:work_end_time;type:varchar(5);default:'17:00'"`
	SlotDurationMins  int                        `gorm:"column:slot_duration_mins;default:30"`
	BreakDurationMins int                        `gorm:"column:break_duration_mins;default:0"`
	ConsultationStyle schedule.ConsultationStyle `gorm:"column:consultation_style;type:varchar(20);default:'normal'"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

// ScheduleConfig normalizes the stored settings for the slot engine.
func (d *Doctor) ScheduleConfig() schedule.Config {
	return schedule.ParseConfig(d.WorkStartTime, d.WorkEndTime, d.SlotDurationMins, d.BreakDurationMins)
}

// ApplyStyle maps a consultation style onto a concrete slot duration and
// records both. wantsBreaks interleaves a 10-minute buffer between patients.
func (d *Doctor) ApplyStyle(style schedule.ConsultationStyle, wantsBreaks bool) {
	d.ConsultationStyle = style
	d.SlotDurationMins = int(style.Duration().Minutes())
	if wantsBreaks {
		d.BreakDurationMins = 10
	} else {
		d.BreakDurationMins = 0
	}
}

type CreateDoctorCommand struct {
	UserID         uuid.UUID
	ClinicID       uuid.UUID
	FullName       string
	Specialization string
	LicenseNumber  string
	BreakMins      int
}

type UpdateScheduleCommand struct {
	ConsultationStyle *schedule.ConsultationStyle
	WantsBreaks       *bool
	WorkStart         *string // "HH:MM"
	WorkEnd           *string // "HH:MM"
}

type PublicListing struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization"`
	ClinicName     string    `json:"clinic_name"`
	Location       string    `json:"location"`
}
