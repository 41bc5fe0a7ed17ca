package chatroom

import (
	"time"

	"github.com/skillswap/skillswap/internal/directory"
)

// SystemSenderID is the reserved sender for machine-generated messages such as
// the welcome line appended when a room is first materialized.
const SystemSenderID uint64 = 0

// Room is the canonical chat room for an unordered user pair and a skill name.
// Rows are stored normalized (User1ID <= User2ID) so the unique index alone
// enforces the one-room invariant regardless of direction.
type Room struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:uniq_room_pair_skill,priority:1" json:"user1_id"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:uniq_room_pair_skill,priority:2" json:"user2_id"`
	SkillName string    `gorm:"type:varchar(255);not null;uniqueIndex:uniq_room_pair_skill,priority:3" json:"skill_name"`
	CreatedAt time.Time `json:"created_at"`

	User1 directory.User `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE" json:"-"`
	User2 directory.User `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Room) TableName() string { return "chat_rooms" }

// Members returns the two user ids the room's messages are delivered to.
func (r *Room) Members() []uint64 { return []uint64{r.User1ID, r.User2ID} }

// Message is append-only; no FK on SenderID because of the system sentinel.
type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatRoomID uint64    `gorm:"index;not null" json:"chat_room_id"`
	SenderID   uint64    `gorm:"not null" json:"sender_id"`
	Body       string    `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Room Room `gorm:"foreignKey:ChatRoomID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Message) TableName() string { return "chat_messages" }

// MessageWithSender is the display shape with the sender name resolved.
type MessageWithSender struct {
	ID         uint64    `json:"id"`
	ChatRoomID uint64    `json:"chat_room_id"`
	SenderID   uint64    `json:"sender_id"`
	Body       string    `gorm:"column:message" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	SenderName string    `json:"sender_name"`
}

// RoomWithOther is a room from one participant's point of view.
type RoomWithOther struct {
	ID            uint64    `json:"id"`
	SkillName     string    `json:"skill_name"`
	CreatedAt     time.Time `json:"created_at"`
	OtherUserID   uint64    `json:"other_user_id"`
	OtherUserName string    `json:"other_user_name"`
}
