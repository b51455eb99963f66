package room

import "time"

type Room struct {
	ID        uint64    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	CreatorID uint64    `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// Member is one membership row. Position 0 is the creator and implicit
// admin; the unique pair index keeps membership idempotent.
type Member struct {
	ID        uint64    `gorm:"primaryKey"`
	RoomID    uint64    `gorm:"uniqueIndex:uq_room_member,priority:1;not null"`
	UserID    uint64    `gorm:"uniqueIndex:uq_room_member,priority:2;not null"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
}

// Invite stays resolvable until expiry even after a join; ConsumedAt
// only records first use, it does not invalidate the code.
type Invite struct {
	ID         uint64     `gorm:"primaryKey"`
	RoomID     uint64     `gorm:"index;not null"`
	Code       string     `gorm:"uniqueIndex;size:16;not null"`
	CreatedBy  uint64     `gorm:"not null"`
	ExpiresAt  time.Time  `gorm:"index;not null"`
	ConsumedAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt  time.Time  `gorm:"not null"`
}

// Suggestion is one append-only meal-board entry. Date is a naive
// YYYY-MM-DD key; the server applies no timezone to it.
type Suggestion struct {
	ID        uint64    `gorm:"primaryKey"`
	RoomID    uint64    `gorm:"index:idx_sugg_board,priority:1;not null"`
	Date      string    `gorm:"index:idx_sugg_board,priority:2;size:10;not null"`
	Slot      string    `gorm:"index:idx_sugg_board,priority:3;not null"`
	Dish      string    `gorm:"not null"`
	UserID    uint64    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotSnacks    = "snacks"
	SlotDinner    = "dinner"
)

func ValidSlot(s string) bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotSnacks, SlotDinner:
		return true
	}
	return false
}
