package directory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skillswap/skillswap/internal/apperr"
)

// Repo is the user/skill directory the coordination core reads. The core only
// resolves identities through it; it never mutates economy fields here (that is
// the ledger's job).
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateUser(ctx context.Context, u *User) error {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", u.Email).Count(&cnt).Error; err != nil {
		return apperr.Internal("failed to check email", err)
	}
	if cnt > 0 {
		return apperr.ErrEmailTaken
	}
	if u.Points == 0 {
		u.Points = StartingPoints
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return apperr.Internal("failed to create user", err)
	}
	return nil
}

func (r *Repo) GetUser(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return &u, nil
}

// ResolveName returns the display name for a user id. The zero id is the
// system sentinel used for machine-generated chat messages.
func (r *Repo) ResolveName(ctx context.Context, id uint64) (string, error) {
	if id == 0 {
		return "System", nil
	}
	u, err := r.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Name, nil
}

func (r *Repo) CreateSkill(ctx context.Context, s *Skill) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return apperr.Internal("failed to create skill", err)
	}
	return nil
}

func (r *Repo) GetSkill(ctx context.Context, id uint64) (*Skill, error) {
	var s Skill
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrSkillNotFound
		}
		return nil, apperr.Internal("failed to load skill", err)
	}
	return &s, nil
}

func (r *Repo) ListSkills(ctx context.Context) ([]SkillWithOwner, error) {
	var out []SkillWithOwner
	err := r.db.WithContext(ctx).
		Table("skills").
		Select("skills.*, users.name AS user_name, users.location AS location").
		Joins("JOIN users ON skills.user_id = users.id").
		Order("skills.created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Internal("failed to list skills", err)
	}
	return out, nil
}

func (r *Repo) ListUserSkills(ctx context.Context, userID uint64) ([]Skill, error) {
	var out []Skill
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal("failed to list user skills", err)
	}
	return out, nil
}

func (r *Repo) DeleteSkill(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&Skill{}, id)
	if res.Error != nil {
		return apperr.Internal("failed to delete skill", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrSkillNotFound
	}
	return nil
}
