package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap/internal/apperr"
	"github.com/skillswap/skillswap/internal/chatroom"
	"github.com/skillswap/skillswap/internal/common"
	"github.com/skillswap/skillswap/internal/directory"
	"github.com/skillswap/skillswap/internal/events"
	"github.com/skillswap/skillswap/internal/ledger"
	"github.com/skillswap/skillswap/internal/live"
)

// AcceptPolicy selects the economy effect of an accept, keyed by which store
// the transition came from. The two tariffs are a product decision and are
// deliberately not unified.
type AcceptPolicy string

const (
	// PolicySimpleRefund: accepting a plain request returns the sender's stake.
	PolicySimpleRefund AcceptPolicy = "simple_refund"
	// PolicyRichReward: accepting a proposal rewards the accepter.
	PolicyRichReward AcceptPolicy = "rich_reward"
)

// EventPublisher pushes domain events to the message queue; nil disables
// publishing (tests, queue-less dev).
type EventPublisher interface {
	Publish(ctx context.Context, ev events.DomainEvent) error
}

// Service is both stores plus the transition orchestrator that fires on
// accept.
type Service struct {
	db        *gorm.DB
	repo      *Repo
	ledger    *ledger.Ledger
	dir       *directory.Repo
	rooms     *chatroom.Service
	pusher    live.Pusher
	publisher EventPublisher
	log       *logrus.Logger
}

func NewService(db *gorm.DB, repo *Repo, lg *ledger.Ledger, dir *directory.Repo, rooms *chatroom.Service, pusher live.Pusher, publisher EventPublisher, log *logrus.Logger) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		ledger:    lg,
		dir:       dir,
		rooms:     rooms,
		pusher:    pusher,
		publisher: publisher,
		log:       log,
	}
}

// SendRequest validates, debits the stake and inserts the pending record as
// one transaction. Every business-rule failure happens before any mutation.
func (s *Service) SendRequest(ctx context.Context, fromUser, toUser, skillID uint64) (*SkillRequest, error) {
	if fromUser == 0 || skillID == 0 {
		return nil, apperr.InvalidArg("from_user and skill_id are required")
	}

	skill, err := s.dir.GetSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if toUser == 0 {
		toUser = skill.UserID
	}
	if fromUser == toUser || fromUser == skill.UserID {
		return nil, apperr.ErrSelfRequest
	}

	open, err := s.repo.HasOpenRequest(ctx, fromUser, skillID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperr.ErrDuplicateRequest
	}

	bal, err := s.ledger.Balance(ctx, fromUser)
	if err != nil {
		return nil, err
	}
	if bal.Points < ledger.SendCost {
		return nil, apperr.ErrNotEnoughPoints
	}

	req := &SkillRequest{
		FromUser: fromUser,
		ToUser:   toUser,
		SkillID:  skillID,
		Status:   RequestPending,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.WithTx(tx).ApplyDelta(ctx, fromUser, ledger.Delta{Points: -ledger.SendCost}); err != nil {
			return err
		}
		return s.repo.WithTx(tx).CreateRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.KindRequestSent, fromUser, req.ID, map[string]any{
		"to_user":  toUser,
		"skill_id": skillID,
	})
	return req, nil
}

// UpdateRequestStatus terminates a pending request. Accepting runs the
// simple_refund policy; re-deciding a terminal request fails InvalidState.
func (s *Service) UpdateRequestStatus(ctx context.Context, requestID uint64, status RequestStatus) error {
	if status != RequestAccepted && status != RequestRejected {
		return apperr.InvalidArg("status must be accepted or rejected")
	}

	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status.Terminal() {
		return apperr.ErrAlreadyDecided
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).AdvanceRequestStatus(ctx, requestID, status); err != nil {
			return err
		}
		if status == RequestAccepted {
			return s.creditAccept(ctx, tx, PolicySimpleRefund, req.FromUser, req.ToUser)
		}
		return nil
	})
	if err != nil {
		return err
	}

	kind := events.KindRequestRejected
	if status == RequestAccepted {
		kind = events.KindRequestAccepted
	}
	s.publish(ctx, kind, req.ToUser, requestID, map[string]any{
		"from_user": req.FromUser,
		"skill_id":  req.SkillID,
	})
	return nil
}

// CancelRequest deletes a still-pending request and refunds the stake.
func (s *Service) CancelRequest(ctx context.Context, requestID uint64) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status.Terminal() {
		return apperr.ErrAlreadyDecided
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DeletePendingRequest(ctx, requestID); err != nil {
			return err
		}
		return s.ledger.WithTx(tx).ApplyDelta(ctx, req.FromUser, ledger.Delta{Points: ledger.CancelRefund})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.KindRequestCancelled, req.FromUser, requestID, map[string]any{
		"skill_id": req.SkillID,
	})
	return nil
}

func (s *Service) ListRequestsForUser(ctx context.Context, userID uint64) ([]RequestWithContext, error) {
	return s.repo.ListRequestsForUser(ctx, userID)
}

// SendProposal inserts the unread proposal and pushes it live to the
// recipient. The push is best-effort; the row is the durable copy.
func (s *Service) SendProposal(ctx context.Context, fromUser, toUser uint64, skillName, duration, message string) (*NotificationWithSender, error) {
	if fromUser == 0 || toUser == 0 || strings.TrimSpace(skillName) == "" {
		return nil, apperr.InvalidArg("from_user_id, to_user_id and skill_name are required")
	}

	senderName, err := s.dir.ResolveName(ctx, fromUser)
	if err != nil {
		return nil, err
	}
	if _, err := s.dir.GetUser(ctx, toUser); err != nil {
		return nil, err
	}

	n := &Notification{
		FromUserID: fromUser,
		ToUserID:   toUser,
		SkillName:  skillName,
		Duration:   duration,
		Message:    message,
		Status:     NotificationUnread,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}

	resolved := &NotificationWithSender{
		ID:           n.ID,
		FromUserID:   n.FromUserID,
		ToUserID:     n.ToUserID,
		SkillName:    n.SkillName,
		Duration:     n.Duration,
		Message:      n.Message,
		Status:       n.Status,
		CreatedAt:    n.CreatedAt,
		FromUserName: senderName,
	}

	s.pusher.Push(toUser, live.Notification(map[string]any{
		"id":             resolved.ID,
		"from_user_id":   resolved.FromUserID,
		"from_user_name": resolved.FromUserName,
		"skill_name":     resolved.SkillName,
		"duration":       resolved.Duration,
		"message":        resolved.Message,
		"status":         resolved.Status,
		"created_at":     resolved.CreatedAt,
	}))

	s.publish(ctx, events.KindProposalSent, fromUser, n.ID, map[string]any{
		"to_user":    toUser,
		"skill_name": skillName,
	})
	return resolved, nil
}

// UpdateProposalStatus handles read/rejected as plain status writes and
// delegates accepted to the orchestrator. On accept it returns the chat room
// id the parties were dropped into.
func (s *Service) UpdateProposalStatus(ctx context.Context, notificationID uint64, status NotificationStatus) (uint64, error) {
	switch status {
	case NotificationRead, NotificationAccepted, NotificationRejected:
	default:
		return 0, apperr.InvalidArg("status must be read, accepted or rejected")
	}

	n, err := s.repo.GetNotification(ctx, notificationID)
	if err != nil {
		return 0, err
	}
	if n.Status.Terminal() {
		return 0, apperr.ErrAlreadyDecided
	}

	switch status {
	case NotificationRead:
		return 0, s.repo.SetNotificationRead(ctx, notificationID)

	case NotificationRejected:
		if err := s.repo.DecideNotification(ctx, notificationID, NotificationRejected); err != nil {
			return 0, err
		}
		s.publish(ctx, events.KindProposalRejected, n.ToUserID, notificationID, map[string]any{
			"from_user":  n.FromUserID,
			"skill_name": n.SkillName,
		})
		return 0, nil

	default:
		return s.acceptProposal(ctx, n)
	}
}

// acceptProposal is the delicate sequence. The status write and the reward
// credit commit together; room materialization and pushes are best-effort
// follow-ups that must never undo the accept.
func (s *Service) acceptProposal(ctx context.Context, n *Notification) (uint64, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DecideNotification(ctx, n.ID, NotificationAccepted); err != nil {
			return err
		}
		return s.creditAccept(ctx, tx, PolicyRichReward, n.FromUserID, n.ToUserID)
	})
	if err != nil {
		return 0, err
	}

	fromName, nameErr := s.dir.ResolveName(ctx, n.FromUserID)
	if nameErr != nil {
		fromName = "Unknown User"
	}
	toName, nameErr := s.dir.ResolveName(ctx, n.ToUserID)
	if nameErr != nil {
		toName = "Unknown User"
	}

	// Idempotent room resolution. A second accept attempt (or a proactively
	// opened room) lands on the same row; a chat failure is logged and does
	// not block the accept that already committed.
	var roomID uint64
	room, _, roomErr := s.rooms.GetOrCreate(ctx, n.FromUserID, n.ToUserID, n.SkillName)
	if roomErr != nil {
		s.log.WithError(roomErr).WithField("notification_id", n.ID).Error("chat room materialization failed")
	} else {
		roomID = room.ID
	}

	s.pusher.Push(n.FromUserID, live.RequestAccepted(
		fmt.Sprintf("%s accepted your request for %s! Chat room created.", toName, n.SkillName),
		n.SkillName, toName, n.ToUserID, roomID,
	))
	s.pusher.Push(n.ToUserID, live.RequestAccepted(
		fmt.Sprintf("You accepted %s's request for %s! +%d points, +%d coins, +%d XP earned.",
			fromName, n.SkillName, ledger.RewardPoints, ledger.RewardCoins, ledger.RewardXP),
		n.SkillName, fromName, n.FromUserID, roomID,
	))

	s.publish(ctx, events.KindProposalAccepted, n.ToUserID, n.ID, map[string]any{
		"from_user":    n.FromUserID,
		"skill_name":   n.SkillName,
		"chat_room_id": roomID,
	})
	return roomID, nil
}

// creditAccept applies the accept-time economy effect for the given policy.
func (s *Service) creditAccept(ctx context.Context, tx *gorm.DB, policy AcceptPolicy, fromUser, toUser uint64) error {
	lg := s.ledger.WithTx(tx)
	switch policy {
	case PolicySimpleRefund:
		return lg.ApplyDelta(ctx, fromUser, ledger.Delta{Points: ledger.AcceptRefund})
	case PolicyRichReward:
		return lg.ApplyDelta(ctx, toUser, ledger.Delta{
			Points: ledger.RewardPoints,
			Coins:  ledger.RewardCoins,
			XP:     ledger.RewardXP,
		})
	default:
		return apperr.InvalidArg("unknown accept policy")
	}
}

func (s *Service) ListNotificationsForUser(ctx context.Context, userID uint64) ([]NotificationWithSender, error) {
	return s.repo.ListNotificationsForUser(ctx, userID)
}

// publish sends a domain event to the queue, best-effort. The triggering
// operation already committed, so a publish failure only gets logged.
func (s *Service) publish(ctx context.Context, kind string, actorID, subjectID uint64, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	id, err := common.NewULID()
	if err != nil {
		s.log.WithError(err).Warn("event id generation failed")
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.WithError(err).Warn("event payload marshal failed")
		return
	}
	ev := events.DomainEvent{
		ID:        id,
		Kind:      kind,
		ActorID:   actorID,
		SubjectID: subjectID,
		Payload:   string(body),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithField("kind", kind).Warn("domain event publish failed")
	}
}
