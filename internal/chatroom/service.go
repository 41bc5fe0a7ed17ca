package chatroom

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/skillswap/skillswap/internal/apperr"
	"github.com/skillswap/skillswap/internal/directory"
	"github.com/skillswap/skillswap/internal/live"
)

type Service struct {
	repo   *Repo
	dir    *directory.Repo
	pusher live.Pusher
	log    *logrus.Logger
}

func NewService(repo *Repo, dir *directory.Repo, pusher live.Pusher, log *logrus.Logger) *Service {
	return &Service{repo: repo, dir: dir, pusher: pusher, log: log}
}

// GetOrCreate resolves the canonical room for the unordered pair + skill,
// creating it with a system welcome message on first use. Calling it twice,
// with the users in either order, yields the same room.
func (s *Service) GetOrCreate(ctx context.Context, userA, userB uint64, skillName string) (*Room, bool, error) {
	if userA == 0 || userB == 0 {
		return nil, false, apperr.InvalidArg("both user ids are required")
	}

	room, created, err := s.repo.CreateOrGetRoom(ctx, userA, userB, skillName)
	if err != nil {
		return nil, false, err
	}

	if created {
		if err := s.insertWelcome(ctx, room, userA, userB); err != nil {
			// the room itself is durable; a missing welcome line is not worth
			// failing the caller over
			s.log.WithError(err).WithField("room_id", room.ID).Error("welcome message insert failed")
		}
	}
	return room, created, nil
}

func (s *Service) insertWelcome(ctx context.Context, room *Room, userA, userB uint64) error {
	nameA, err := s.dir.ResolveName(ctx, userA)
	if err != nil {
		return err
	}
	nameB, err := s.dir.ResolveName(ctx, userB)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Welcome! %s and %s are now connected", nameA, nameB)
	if room.SkillName != "" {
		body += fmt.Sprintf(" to learn %s", room.SkillName)
	}
	body += ". Start your skill exchange journey!"

	return s.repo.InsertMessage(ctx, &Message{
		ChatRoomID: room.ID,
		SenderID:   SystemSenderID,
		Body:       body,
	})
}

// PostMessage stores the message and fans it out to the room's two members
// only. A member without an open session simply misses the push; the durable
// row is what they will read on reconnect.
func (s *Service) PostMessage(ctx context.Context, roomID, senderID uint64, text string) (*MessageWithSender, error) {
	if roomID == 0 || senderID == 0 || strings.TrimSpace(text) == "" {
		return nil, apperr.InvalidArg("chat_room_id, sender_id and message are required")
	}

	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	senderName, err := s.dir.ResolveName(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &Message{ChatRoomID: roomID, SenderID: senderID, Body: text}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	resolved := &MessageWithSender{
		ID:         msg.ID,
		ChatRoomID: roomID,
		SenderID:   senderID,
		Body:       text,
		CreatedAt:  msg.CreatedAt,
		SenderName: senderName,
	}

	s.pusher.PushMany(room.Members(), live.ChatMessage(roomID, map[string]any{
		"id":          resolved.ID,
		"sender_id":   resolved.SenderID,
		"sender_name": resolved.SenderName,
		"message":     resolved.Body,
		"created_at":  resolved.CreatedAt,
	}))

	return resolved, nil
}

func (s *Service) ListMessages(ctx context.Context, roomID uint64) ([]MessageWithSender, error) {
	if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, roomID)
}

func (s *Service) ListRoomsForUser(ctx context.Context, userID uint64) ([]RoomWithOther, error) {
	return s.repo.ListRoomsForUser(ctx, userID)
}
