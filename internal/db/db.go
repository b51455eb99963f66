package db

import (
	"fmt"

	"platea/internal/auth"
	"platea/internal/prefs"
	"platea/internal/recipe"
	"platea/internal/room"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

// AutoMigrate creates the tables and the portable composite indexes.
// It is dialect-agnostic so package tests can run it against sqlite.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&auth.User{},
		&recipe.Recipe{},
		&prefs.Preference{},
		&prefs.ExternalRecipe{},
		&room.Room{},
		&room.Member{},
		&room.Invite{},
		&room.Suggestion{},
	)
}

// Indexes adds the postgres-only indexes on top of AutoMigrate.
func Indexes(gdb *gorm.DB) error {
	stmts := []string{
		`create index if not exists idx_prefs_ref on preferences(ref_kind, ref_id, kind);`,
		`create index if not exists idx_recipes_owner_created on recipes(owner_id, created_at desc);`,
		`create index if not exists idx_invites_expiry on invites(expires_at);`,
		`create index if not exists idx_sugg_room_date on suggestions(room_id, date, slot, id);`,
		`create index if not exists idx_recipes_title on recipes(title);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}
	return nil
}
