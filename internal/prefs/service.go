package prefs

import (
	"context"
	"errors"
	"time"

	"platea/internal/recipe"

	"gorm.io/gorm"
)

var (
	ErrAlreadyLiked      = errors.New("already liked")
	ErrNotLiked          = errors.New("not liked")
	ErrAlreadyBookmarked = errors.New("already bookmarked")
	ErrNotBookmarked     = errors.New("not bookmarked")
)

type Service struct {
	DB *gorm.DB
}

// Entry is one element of a user's like/bookmark list with whatever
// display data could be resolved (recipe row for internal refs,
// persisted snapshot for external ones).
type Entry struct {
	Ref      recipe.Ref
	Title    string
	Image    string
	Category string
	Area     string
}

func (s *Service) Like(ctx context.Context, userID uint64, ref recipe.Ref, snap *Snapshot) error {
	return s.add(ctx, userID, KindLike, ref, snap, ErrAlreadyLiked)
}

func (s *Service) Unlike(ctx context.Context, userID uint64, ref recipe.Ref) error {
	return s.remove(ctx, userID, KindLike, ref, ErrNotLiked)
}

func (s *Service) Bookmark(ctx context.Context, userID uint64, ref recipe.Ref, snap *Snapshot) error {
	return s.add(ctx, userID, KindBookmark, ref, snap, ErrAlreadyBookmarked)
}

func (s *Service) Unbookmark(ctx context.Context, userID uint64, ref recipe.Ref) error {
	return s.remove(ctx, userID, KindBookmark, ref, ErrNotBookmarked)
}

func (s *Service) ListLiked(ctx context.Context, userID uint64) ([]Entry, error) {
	return s.list(ctx, userID, KindLike)
}

func (s *Service) ListBookmarked(ctx context.Context, userID uint64) ([]Entry, error) {
	return s.list(ctx, userID, KindBookmark)
}

// Counts returns how many users have liked / bookmarked the ref.
func (s *Service) Counts(ctx context.Context, ref recipe.Ref) (likes int64, bookmarks int64, err error) {
	q := s.DB.WithContext(ctx).Model(&Preference{}).
		Where("ref_kind = ? AND ref_id = ?", string(ref.Kind), ref.ID)
	if err = q.Session(&gorm.Session{}).Where("kind = ?", KindLike).Count(&likes).Error; err != nil {
		return 0, 0, err
	}
	if err = q.Session(&gorm.Session{}).Where("kind = ?", KindBookmark).Count(&bookmarks).Error; err != nil {
		return 0, 0, err
	}
	return likes, bookmarks, nil
}

func (s *Service) add(ctx context.Context, userID uint64, kind string, ref recipe.Ref, snap *Snapshot, dupErr error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// First like/bookmark of an unseen external ref persists the
		// snapshot so the list stays renderable without the catalog.
		if ref.Kind != recipe.RefInternal && snap != nil {
			if err := upsertSnapshot(tx, ref, snap); err != nil {
				return err
			}
		}

		var existing Preference
		err := tx.Where("user_id = ? AND kind = ? AND ref_kind = ? AND ref_id = ?",
			userID, kind, string(ref.Kind), ref.ID).First(&existing).Error
		if err == nil {
			return dupErr
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p := Preference{
			UserID:    userID,
			Kind:      kind,
			RefKind:   string(ref.Kind),
			RefID:     ref.ID,
			CreatedAt: time.Now(),
		}
		return tx.Create(&p).Error
	})
}

func (s *Service) remove(ctx context.Context, userID uint64, kind string, ref recipe.Ref, missingErr error) error {
	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND ref_kind = ? AND ref_id = ?",
			userID, kind, string(ref.Kind), ref.ID).
		Delete(&Preference{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingErr
	}
	return nil
}

func (s *Service) list(ctx context.Context, userID uint64, kind string) ([]Entry, error) {
	var rows []Preference
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(rows))
	for _, p := range rows {
		ref := recipe.Ref{Kind: recipe.RefKind(p.RefKind), ID: p.RefID}
		out = append(out, s.resolve(ctx, ref))
	}
	return out, nil
}

func (s *Service) resolve(ctx context.Context, ref recipe.Ref) Entry {
	e := Entry{Ref: ref}

	if id, ok := ref.InternalID(); ok {
		var r recipe.Recipe
		if err := s.DB.WithContext(ctx).First(&r, "id = ?", id).Error; err == nil {
			e.Title = r.Title
			e.Image = r.ImageURL
		}
		return e
	}

	var ext ExternalRecipe
	err := s.DB.WithContext(ctx).
		Where("ref_kind = ? AND ref_id = ?", string(ref.Kind), ref.ID).
		First(&ext).Error
	if err == nil {
		e.Title = ext.Title
		e.Image = ext.ImageURL
		e.Category = ext.Category
		e.Area = ext.Area
	}
	return e
}

func upsertSnapshot(tx *gorm.DB, ref recipe.Ref, snap *Snapshot) error {
	var existing ExternalRecipe
	err := tx.Where("ref_kind = ? AND ref_id = ?", string(ref.Kind), ref.ID).First(&existing).Error
	if err == nil {
		return nil // first snapshot wins, later likes don't rewrite it
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	raw := snap.Raw
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	ext := ExternalRecipe{
		RefKind:   string(ref.Kind),
		RefID:     ref.ID,
		Title:     snap.Title,
		ImageURL:  snap.Image,
		Category:  snap.Category,
		Area:      snap.Area,
		Raw:       raw,
		CreatedAt: time.Now(),
	}
	return tx.Create(&ext).Error
}
