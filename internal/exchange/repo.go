package exchange

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

// WithTx binds the repo to an open transaction.
func (r *Repo) WithTx(tx *gorm.DB) *Repo {
	return &Repo{db: tx}
}

func (r *Repo) CreateRequest(ctx context.Context, req *SkillRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return apperr.Internal("failed to create request", err)
	}
	return nil
}

func (r *Repo) GetRequest(ctx context.Context, id uint64) (*SkillRequest, error) {
	var req SkillRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrRequestNotFound
		}
		return nil, apperr.Internal("failed to load request", err)
	}
	return &req, nil
}

// HasOpenRequest reports whether a non-terminal request exists for the
// (sender, skill) pair.
func (r *Repo) HasOpenRequest(ctx context.Context, fromUser, skillID uint64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&SkillRequest{}).
		Where("from_user = ? AND skill_id = ? AND status = ?", fromUser, skillID, RequestPending).
		Count(&cnt).Error
	if err != nil {
		return false, apperr.Internal("failed to check open requests", err)
	}
	return cnt > 0, nil
}

// AdvanceRequestStatus moves a pending request to a terminal status. The
// status predicate in the WHERE clause is the terminal-state guard: zero rows
// means someone else already decided it.
func (r *Repo) AdvanceRequestStatus(ctx context.Context, id uint64, to RequestStatus) error {
	res := r.db.WithContext(ctx).Model(&SkillRequest{}).
		Where("id = ? AND status = ?", id, RequestPending).
		Update("status", to)
	if res.Error != nil {
		return apperr.Internal("failed to update request status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrAlreadyDecided
	}
	return nil
}

// DeletePendingRequest removes a request only while it is still pending.
func (r *Repo) DeletePendingRequest(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, RequestPending).
		Delete(&SkillRequest{})
	if res.Error != nil {
		return apperr.Internal("failed to delete request", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrAlreadyDecided
	}
	return nil
}

// ListRequestsForUser returns both sides of the user's requests, newest
// first; the caller's side is tagged per row.
func (r *Repo) ListRequestsForUser(ctx context.Context, userID uint64) ([]RequestWithContext, error) {
	var out []RequestWithContext
	err := r.db.WithContext(ctx).
		Table("requests").
		Select(`requests.id, requests.from_user, requests.to_user, requests.skill_id, requests.status,
			requests.created_at, skills.skill_name AS skill_name, skills.user_id AS owner_id,
			u1.name AS from_user_name, u2.name AS to_user_name`).
		Joins("JOIN skills ON requests.skill_id = skills.id").
		Joins("JOIN users u1 ON requests.from_user = u1.id").
		Joins("JOIN users u2 ON requests.to_user = u2.id").
		Where("requests.from_user = ? OR requests.to_user = ?", userID, userID).
		Order("requests.created_at DESC, requests.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal("failed to list requests", err)
	}
	for i := range out {
		if out[i].FromUser == userID {
			out[i].RequestType = "sent"
		} else {
			out[i].RequestType = "received"
		}
	}
	return out, nil
}

func (r *Repo) CreateNotification(ctx context.Context, n *Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return apperr.Internal("failed to create notification", err)
	}
	return nil
}

func (r *Repo) GetNotification(ctx context.Context, id uint64) (*Notification, error) {
	var n Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotificationNotFound
		}
		return nil, apperr.Internal("failed to load notification", err)
	}
	return &n, nil
}

// SetNotificationRead is the informational transition; it only applies while
// the proposal is still undecided.
func (r *Repo) SetNotificationRead(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND status IN ?", id, []NotificationStatus{NotificationUnread, NotificationRead}).
		Update("status", NotificationRead)
	if res.Error != nil {
		return apperr.Internal("failed to mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrAlreadyDecided
	}
	return nil
}

// DecideNotification moves an undecided proposal to a terminal status, with
// the same zero-rows guard as the request path.
func (r *Repo) DecideNotification(ctx context.Context, id uint64, to NotificationStatus) error {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND status IN ?", id, []NotificationStatus{NotificationUnread, NotificationRead}).
		Update("status", to)
	if res.Error != nil {
		return apperr.Internal("failed to update notification status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrAlreadyDecided
	}
	return nil
}

// ListNotificationsForUser returns the user's inbox, newest first.
func (r *Repo) ListNotificationsForUser(ctx context.Context, userID uint64) ([]NotificationWithSender, error) {
	var out []NotificationWithSender
	err := r.db.WithContext(ctx).
		Table("notifications").
		Select(`notifications.id, notifications.from_user_id, notifications.to_user_id,
			notifications.skill_name, notifications.duration, notifications.message,
			notifications.status, notifications.created_at, users.name AS from_user_name`).
		Joins("JOIN users ON notifications.from_user_id = users.id").
		Where("notifications.to_user_id = ?", userID).
		Order("notifications.created_at DESC, notifications.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal("failed to list notifications", err)
	}
	return out, nil
}
