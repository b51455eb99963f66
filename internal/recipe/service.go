package recipe

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("recipe not found")
var ErrInvalidRecipe = errors.New("invalid recipe")

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Title       string
	Description string
	Ingredients []string
	Steps       []string
	ImageURL    string
	RoomID      *uint64
}

func (s *Service) Create(ctx context.Context, ownerID uint64, in CreateInput) (*Recipe, error) {
	in.Title = strings.TrimSpace(in.Title)
	ingredients := trimNonEmpty(in.Ingredients)
	steps := trimNonEmpty(in.Steps)
	if in.Title == "" || len(ingredients) == 0 || len(steps) == 0 {
		return nil, ErrInvalidRecipe
	}

	r := Recipe{
		OwnerID:     ownerID,
		RoomID:      in.RoomID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Ingredients: pq.StringArray(ingredients),
		Steps:       pq.StringArray(steps),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if err := s.DB.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Recipe, error) {
	var r Recipe
	if err := s.DB.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uint64) ([]Recipe, error) {
	var rows []Recipe
	err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&rows).Error
	return rows, err
}

func (s *Service) ListByRoom(ctx context.Context, roomID uint64) ([]Recipe, error) {
	var rows []Recipe
	err := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
