package directory

import "time"

// StartingPoints is the spendable credit every new account opens with.
const StartingPoints = 50

type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Location  string    `gorm:"type:varchar(100)" json:"location"`
	Points    int64     `gorm:"not null;default:50" json:"points"`
	Coins     int64     `gorm:"not null;default:0" json:"coins"`
	XP        int64     `gorm:"column:xp;not null;default:0" json:"xp"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

type Skill struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint64    `gorm:"index;not null" json:"user_id"`
	SkillName    string    `gorm:"type:varchar(255);not null" json:"skill_name"`
	Description  string    `gorm:"type:text" json:"description"`
	Category     string    `gorm:"type:varchar(100)" json:"category"`
	Price        int64     `gorm:"not null;default:0" json:"price"`
	Availability string    `gorm:"type:varchar(255)" json:"availability"`
	CreatedAt    time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Skill) TableName() string { return "skills" }

// SkillWithOwner is the listing shape: a skill row joined with its owner's
// display fields.
type SkillWithOwner struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	SkillName    string    `json:"skill_name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        int64     `json:"price"`
	Availability string    `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
	UserName     string    `json:"user_name"`
	Location     string    `json:"location"`
}
