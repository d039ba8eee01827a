package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Item is a clinic supply line: consumables, instruments, materials.
type Item struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	ClinicID uuid.UUID `gorm:"column:clinic_id;type:uuid;not null;index"`

	Name     string `gorm:"column:name;type:varchar(200);not null"`
	Quantity int    `gorm:"column:quantity;default:0"`
	Unit     string `gorm:"column:unit;type:varchar(50)"` // e.g. "boxes", "vials"

	// Threshold is the warning level: at or below it the item shows up in
	// the low-stock report.
	Threshold int `gorm:"column:threshold;default:10"`
}

func (Item) TableName() string {
	return "clinical.inventory_items"
}

// LowStock reports whether the item has reached its warning level.
func (i *Item) LowStock() bool {
	return i.Quantity <= i.Threshold
}

type CreateItemCommand struct {
	ClinicID  uuid.UUID
	Name      string
	Quantity  int
	Unit      string
	Threshold int
}

// AdjustCommand changes an item's quantity by a signed delta: positive values
// restock, negative values consume.
type AdjustCommand struct {
	Delta int
}
