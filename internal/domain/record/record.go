package record

import (
	"time"

	"github.com/google/uuid"
)

// Attachment references an externally stored file (x-ray, scan) linked to a
// visit record.
type Attachment struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

// Record is an immutable dental visit record. Once created it cannot be
// edited or deleted.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	PatientID     uuid.UUID  `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID      uuid.UUID  `gorm:"column:doctor_id;type:uuid;not null;index"`
	AppointmentID *uuid.UUID `gorm:"column:appointment_id;type:uuid;index"`

	VisitDate    time.Time    `gorm:"column:visit_date;not null;index"`
	Diagnosis    string       `gorm:"column:diagnosis;type:text"`
	Prescription string       `gorm:"column:prescription;type:text"`
	Notes        string       `gorm:"column:notes;type:text"`
	Attachments  []Attachment `gorm:"column:attachments;serializer:json"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Record) TableName() string {
	return "clinical.visit_records"
}

type CreateRecordCommand struct {
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	AppointmentID *uuid.UUID
	VisitDate     time.Time
	Diagnosis     string
	Prescription  string
	Notes         string
	Attachments   []Attachment
	CreatedBy     uuid.UUID
}
