package room

import (
	"context"
	"errors"
	"strings"
	"time"

	"platea/internal/recipe"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("room not found")
	ErrAlreadyMember     = errors.New("already a member")
	ErrNotMember         = errors.New("not a member")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInvite     = errors.New("invalid invite code")
	ErrExpiredInvite     = errors.New("invite expired")
	ErrInvalidSuggestion = errors.New("invalid suggestion")
	ErrInvalidRoom       = errors.New("invalid room")
)

type Service struct {
	DB      *gorm.DB
	Recipes *recipe.Service
}

// MemberInfo is a membership row joined with the user's display data,
// ordered by Position (admin first).
type MemberInfo struct {
	UserID    uint64 `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Position  int    `json:"position"`
}

type Details struct {
	Room    Room
	Members []MemberInfo
	Recipes []recipe.Recipe
}

// SuggestionInfo is a board entry joined with the suggesting user's name.
type SuggestionInfo struct {
	ID        uint64    `json:"id"`
	Dish      string    `json:"dish"`
	UserID    uint64    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Board holds the four slots for one room-day, each in insertion order.
type Board struct {
	Breakfast []SuggestionInfo `json:"breakfast"`
	Lunch     []SuggestionInfo `json:"lunch"`
	Snacks    []SuggestionInfo `json:"snacks"`
	Dinner    []SuggestionInfo `json:"dinner"`
}

func (s *Service) CreateRoom(ctx context.Context, creatorID uint64, name string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidRoom
	}

	r := Room{Name: name, CreatorID: creatorID}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		m := Member{RoomID: r.ID, UserID: creatorID, Position: 0}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) ListRooms(ctx context.Context, userID uint64) ([]Room, error) {
	var rooms []Room
	err := s.DB.WithContext(ctx).
		Joins("JOIN members ON members.room_id = rooms.id AND members.user_id = ?", userID).
		Order("rooms.id asc").
		Find(&rooms).Error
	return rooms, err
}

func (s *Service) GetRoom(ctx context.Context, userID, roomID uint64) (*Details, error) {
	r, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, roomID); err != nil {
		return nil, err
	}

	members, err := s.members(ctx, roomID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.Recipes.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &Details{Room: *r, Members: members, Recipes: recipes}, nil
}

func (s *Service) JoinRoom(ctx context.Context, userID, roomID uint64) error {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return err
	}
	return s.addMember(ctx, userID, roomID)
}

func (s *Service) CreateInvite(ctx context.Context, userID, roomID uint64) (*Invite, error) {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, roomID); err != nil {
		return nil, err
	}

	code, err := NewCode()
	if err != nil {
		return nil, err
	}
	inv := Invite{
		RoomID:    roomID,
		Code:      code,
		CreatedBy: userID,
		ExpiresAt: time.Now().Add(inviteTTL),
	}
	if err := s.DB.WithContext(ctx).Create(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Service) ListInvites(ctx context.Context, userID, roomID uint64) ([]Invite, error) {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, roomID); err != nil {
		return nil, err
	}

	var invites []Invite
	err := s.DB.WithContext(ctx).
		Where("room_id = ? AND expires_at > ?", roomID, time.Now()).
		Order("id desc").
		Find(&invites).Error
	return invites, err
}

// JoinViaInvite resolves the code and adds the joiner exactly once.
// A code stays usable until expiry; ConsumedAt records first use only.
func (s *Service) JoinViaInvite(ctx context.Context, userID uint64, code string) (*Room, error) {
	var inv Invite
	err := s.DB.WithContext(ctx).Where("code = ?", code).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInvite
		}
		return nil, err
	}
	if time.Now().After(inv.ExpiresAt) {
		return nil, ErrExpiredInvite
	}

	r, err := s.getRoom(ctx, inv.RoomID)
	if err != nil {
		return nil, err
	}
	if err := s.addMember(ctx, userID, inv.RoomID); err != nil {
		return nil, err
	}

	if inv.ConsumedAt == nil {
		now := time.Now()
		_ = s.DB.WithContext(ctx).Model(&Invite{}).
			Where("id = ? AND consumed_at IS NULL", inv.ID).
			Update("consumed_at", now).Error
	}
	return r, nil
}

// RemoveMember lets the admin (position-0 member) remove another
// member. The admin cannot remove themselves; there is no ownership
// transfer path.
func (s *Service) RemoveMember(ctx context.Context, actorID, roomID, targetID uint64) error {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return err
	}

	var admin Member
	err := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("position asc").
		First(&admin).Error
	if err != nil {
		return err
	}
	if admin.UserID != actorID || targetID == actorID {
		return ErrForbidden
	}

	res := s.DB.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, targetID).
		Delete(&Member{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) AddSuggestion(ctx context.Context, userID, roomID uint64, date, slot, dish string) (*Suggestion, error) {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, roomID); err != nil {
		return nil, err
	}

	dish = strings.TrimSpace(dish)
	if dish == "" || !ValidSlot(slot) {
		return nil, ErrInvalidSuggestion
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidSuggestion
	}

	sg := Suggestion{
		RoomID: roomID,
		Date:   date,
		Slot:   slot,
		Dish:   dish,
		UserID: userID,
	}
	if err := s.DB.WithContext(ctx).Create(&sg).Error; err != nil {
		return nil, err
	}
	return &sg, nil
}

// ListSuggestions returns the four slots for the date. A date nobody
// has written to yields four empty slots, not an error.
func (s *Service) ListSuggestions(ctx context.Context, userID, roomID uint64, date string) (*Board, error) {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, roomID); err != nil {
		return nil, err
	}

	type scanRow struct {
		ID        uint64
		Dish      string
		UserID    uint64
		UserName  string
		CreatedAt time.Time
		Slot      string
	}
	var raw []scanRow
	err := s.DB.WithContext(ctx).Model(&Suggestion{}).
		Select("suggestions.id, suggestions.dish, suggestions.user_id, users.name as user_name, suggestions.created_at, suggestions.slot").
		Joins("LEFT JOIN users ON users.id = suggestions.user_id").
		Where("suggestions.room_id = ? AND suggestions.date = ?", roomID, date).
		Order("suggestions.id asc").
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	board := &Board{
		Breakfast: []SuggestionInfo{},
		Lunch:     []SuggestionInfo{},
		Snacks:    []SuggestionInfo{},
		Dinner:    []SuggestionInfo{},
	}
	for _, r := range raw {
		info := SuggestionInfo{ID: r.ID, Dish: r.Dish, UserID: r.UserID, UserName: r.UserName, CreatedAt: r.CreatedAt}
		switch r.Slot {
		case SlotBreakfast:
			board.Breakfast = append(board.Breakfast, info)
		case SlotLunch:
			board.Lunch = append(board.Lunch, info)
		case SlotSnacks:
			board.Snacks = append(board.Snacks, info)
		case SlotDinner:
			board.Dinner = append(board.Dinner, info)
		}
	}
	return board, nil
}

// ShareRecipe creates an internal recipe scoped to the room.
func (s *Service) ShareRecipe(ctx context.Context, userID, roomID uint64, in recipe.CreateInput) (*recipe.Recipe, error) {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, roomID); err != nil {
		return nil, err
	}
	in.RoomID = &roomID
	return s.Recipes.Create(ctx, userID, in)
}

func (s *Service) getRoom(ctx context.Context, roomID uint64) (*Room, error) {
	var r Room
	if err := s.DB.WithContext(ctx).First(&r, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Service) requireMember(ctx context.Context, userID, roomID uint64) error {
	var m Member
	err := s.DB.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotMember
	}
	return err
}

func (s *Service) addMember(ctx context.Context, userID, roomID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Member
		err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&Member{}).Where("room_id = ?", roomID).Count(&count).Error; err != nil {
			return err
		}
		m := Member{RoomID: roomID, UserID: userID, Position: int(count)}
		return tx.Create(&m).Error
	})
}

func (s *Service) members(ctx context.Context, roomID uint64) ([]MemberInfo, error) {
	var out []MemberInfo
	err := s.DB.WithContext(ctx).Model(&Member{}).
		Select("members.user_id, users.name, users.avatar_url, members.position").
		Joins("LEFT JOIN users ON users.id = members.user_id").
		Where("members.room_id = ?", roomID).
		Order("members.position asc").
		Scan(&out).Error
	return out, err
}
