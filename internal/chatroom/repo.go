package chatroom

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skillswap/skillswap/internal/apperr"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// normalizePair orders a user pair so direction never matters for storage.
func normalizePair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

func (r *Repo) GetRoom(ctx context.Context, id uint64) (*Room, error) {
	var room Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrRoomNotFound
		}
		return nil, apperr.Internal("failed to load chat room", err)
	}
	return &room, nil
}

func (r *Repo) getByPairSkill(ctx context.Context, u1, u2 uint64, skillName string) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ? AND skill_name = ?", u1, u2, skillName).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrRoomNotFound
		}
		return nil, apperr.Internal("failed to load chat room", err)
	}
	return &room, nil
}

// CreateOrGetRoom materializes the canonical room for the pair + skill. The
// insert leans on the unique index: a uniqueness violation is the "already
// exists" signal and is answered by a fetch, so there is no check-then-insert
// window.
func (r *Repo) CreateOrGetRoom(ctx context.Context, a, b uint64, skillName string) (*Room, bool, error) {
	u1, u2 := normalizePair(a, b)

	room := &Room{User1ID: u1, User2ID: u2, SkillName: skillName}
	err := r.db.WithContext(ctx).Create(room).Error
	if err == nil {
		return room, true, nil
	}

	existing, getErr := r.getByPairSkill(ctx, u1, u2, skillName)
	if getErr == nil {
		return existing, false, nil
	}
	if apperr.Is(getErr, apperr.CodeNotFound) {
		// not a uniqueness conflict after all; surface the original failure
		return nil, false, apperr.Internal("failed to create chat room", err)
	}
	return nil, false, getErr
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperr.Internal("failed to insert chat message", err)
	}
	return nil
}

// ListMessages returns the room's messages ascending, sender names resolved.
// The system sentinel has no user row, hence the LEFT JOIN.
func (r *Repo) ListMessages(ctx context.Context, roomID uint64) ([]MessageWithSender, error) {
	var out []MessageWithSender
	err := r.db.WithContext(ctx).
		Table("chat_messages").
		Select("chat_messages.id, chat_messages.chat_room_id, chat_messages.sender_id, chat_messages.message, chat_messages.created_at, COALESCE(users.name, 'System') AS sender_name").
		Joins("LEFT JOIN users ON chat_messages.sender_id = users.id").
		Where("chat_messages.chat_room_id = ?", roomID).
		Order("chat_messages.created_at ASC, chat_messages.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal("failed to list chat messages", err)
	}
	return out, nil
}

// ListRoomsForUser returns every room the user participates in, newest first,
// with the other participant resolved.
func (r *Repo) ListRoomsForUser(ctx context.Context, userID uint64) ([]RoomWithOther, error) {
	var out []RoomWithOther
	err := r.db.WithContext(ctx).
		Table("chat_rooms").
		Select(`chat_rooms.id, chat_rooms.skill_name, chat_rooms.created_at,
			CASE WHEN chat_rooms.user1_id = ? THEN chat_rooms.user2_id ELSE chat_rooms.user1_id END AS other_user_id,
			CASE WHEN chat_rooms.user1_id = ? THEN u2.name ELSE u1.name END AS other_user_name`, userID, userID).
		Joins("JOIN users u1 ON chat_rooms.user1_id = u1.id").
		Joins("JOIN users u2 ON chat_rooms.user2_id = u2.id").
		Where("chat_rooms.user1_id = ? OR chat_rooms.user2_id = ?", userID, userID).
		Order("chat_rooms.created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal("failed to list chat rooms", err)
	}
	return out, nil
}
