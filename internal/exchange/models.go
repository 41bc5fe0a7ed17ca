package exchange

import (
	"time"

	"github.com/skillswap/skillswap/internal/directory"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Terminal statuses admit no further transition; the lifecycle is forward-only.
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

// SkillRequest is the lean request record between two users over one skill.
type SkillRequest struct {
	ID        uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	FromUser  uint64        `gorm:"column:from_user;index;not null" json:"from_user"`
	ToUser    uint64        `gorm:"column:to_user;index;not null" json:"to_user"`
	SkillID   uint64        `gorm:"index;not null" json:"skill_id"`
	Status    RequestStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Sender    directory.User  `gorm:"foreignKey:FromUser;constraint:OnDelete:CASCADE" json:"-"`
	Recipient directory.User  `gorm:"foreignKey:ToUser;constraint:OnDelete:CASCADE" json:"-"`
	Skill     directory.Skill `gorm:"foreignKey:SkillID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SkillRequest) TableName() string { return "requests" }

type NotificationStatus string

const (
	NotificationUnread   NotificationStatus = "unread"
	NotificationRead     NotificationStatus = "read"
	NotificationAccepted NotificationStatus = "accepted"
	NotificationRejected NotificationStatus = "rejected"
)

// Terminal reports whether the proposal has been decided; read is an
// informational transition and stays open.
func (s NotificationStatus) Terminal() bool {
	return s == NotificationAccepted || s == NotificationRejected
}

// Notification is the richer proposal record. Accepting one is what triggers
// chat-room materialization and the rich reward.
type Notification struct {
	ID         uint64             `gorm:"primaryKey;autoIncrement" json:"id"`
	FromUserID uint64             `gorm:"index;not null" json:"from_user_id"`
	ToUserID   uint64             `gorm:"index;not null" json:"to_user_id"`
	SkillName  string             `gorm:"type:varchar(255);not null" json:"skill_name"`
	Duration   string             `gorm:"type:varchar(100)" json:"duration"`
	Message    string             `gorm:"type:text" json:"message"`
	Status     NotificationStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`

	Sender    directory.User `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient directory.User `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// RequestWithContext is the listing shape: a request joined with both names
// and its skill, tagged with the viewer's side.
type RequestWithContext struct {
	ID           uint64        `json:"id"`
	FromUser     uint64        `json:"from_user"`
	ToUser       uint64        `json:"to_user"`
	SkillID      uint64        `json:"skill_id"`
	Status       RequestStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	SkillName    string        `json:"skill_name"`
	FromUserName string        `json:"from_user_name"`
	ToUserName   string        `json:"to_user_name"`
	OwnerID      uint64        `json:"owner_id"`
	RequestType  string        `gorm:"-" json:"request_type"` // "sent" or "received"
}

// NotificationWithSender is the inbox shape with the sender name resolved.
type NotificationWithSender struct {
	ID           uint64             `json:"id"`
	FromUserID   uint64             `json:"from_user_id"`
	ToUserID     uint64             `json:"to_user_id"`
	SkillName    string             `json:"skill_name"`
	Duration     string             `json:"duration"`
	Message      string             `json:"message"`
	Status       NotificationStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	FromUserName string             `json:"from_user_name"`
}
