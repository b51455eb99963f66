package prefs

import (
	"encoding/json"
	"time"
)

const (
	KindLike     = "like"
	KindBookmark = "bookmark"
)

// Preference is one membership row in a user's like or bookmark set.
// The composite unique index gives the sets their no-duplicate
// guarantee at the storage layer.
type Preference struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"uniqueIndex:uq_user_pref,priority:1;not null"`
	Kind      string    `gorm:"uniqueIndex:uq_user_pref,priority:2;not null"`
	RefKind   string    `gorm:"uniqueIndex:uq_user_pref,priority:3;not null"`
	RefID     string    `gorm:"uniqueIndex:uq_user_pref,priority:4;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// ExternalRecipe is the display snapshot persisted the first time an
// external reference is liked or bookmarked, so the recipe stays
// renderable after the upstream catalog becomes unreachable. Raw keeps
// the catalog document as received, numbered ingredient fields and all.
type ExternalRecipe struct {
	ID        uint64          `gorm:"primaryKey"`
	RefKind   string          `gorm:"uniqueIndex:uq_ext_ref,priority:1;not null"`
	RefID     string          `gorm:"uniqueIndex:uq_ext_ref,priority:2;not null"`
	Title     string          `gorm:"not null;default:''"`
	ImageURL  string          `gorm:"type:text;not null;default:''"`
	Category  string          `gorm:"not null;default:''"`
	Area      string          `gorm:"not null;default:''"`
	Raw       json.RawMessage `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time       `gorm:"not null"`
}

// Snapshot is the caller-supplied display data for an external ref.
type Snapshot struct {
	Title    string
	Image    string
	Category string
	Area     string
	Raw      json.RawMessage
}

// SnapshotFromJSON extracts display fields from whatever document the
// client sends, tolerating both the app's own keys and the catalog's
// str-prefixed schema. The full document is retained in Raw.
func SnapshotFromJSON(raw json.RawMessage) Snapshot {
	snap := Snapshot{Raw: raw}
	if len(raw) == 0 {
		return snap
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return snap
	}
	pick := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := doc[k].(string); ok && v != "" {
				return v
			}
		}
		return ""
	}
	snap.Title = pick("title", "strMeal", "strDrink", "name")
	snap.Image = pick("image", "strMealThumb", "strDrinkThumb", "thumbnail")
	snap.Category = pick("category", "strCategory")
	snap.Area = pick("area", "strArea")
	return snap
}
