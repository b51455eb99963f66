package recipe

import (
	"time"

	"github.com/lib/pq"
)

// Recipe is a user-uploaded recipe. RoomID is set when the recipe was
// shared into a room rather than uploaded to the public catalog.
type Recipe struct {
	ID          uint64         `gorm:"primaryKey"`
	OwnerID     uint64         `gorm:"index;not null"`
	RoomID      *uint64        `gorm:"index"`
	Title       string         `gorm:"not null"`
	Description string         `gorm:"type:text;not null;default:''"`
	Ingredients pq.StringArray `gorm:"type:text;not null;default:'{}'"`
	Steps       pq.StringArray `gorm:"type:text;not null;default:'{}'"`
	ImageURL    string         `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time      `gorm:"not null"`
}
