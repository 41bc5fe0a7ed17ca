package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillswap/skillswap/internal/apperr"
	"github.com/skillswap/skillswap/internal/directory"
)

// Fixed tariffs of the points economy. Callers pre-check sufficiency; the
// ledger itself never clamps.
const (
	SendCost     = 5  // debited from the sender when a request goes out
	CancelRefund = 5  // returned to the sender on cancel
	AcceptRefund = 5  // returned to the sender when a plain request is accepted
	RewardPoints = 10 // accepter reward on the proposal path
	RewardCoins  = 2
	RewardXP     = 15
)

// Delta is one atomic, commutative adjustment to a user's economy fields.
type Delta struct {
	Points int64
	Coins  int64
	XP     int64
}

type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a ledger bound to an open transaction, so a delta can commit
// or roll back together with the store mutation it belongs to.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// ApplyDelta adds the delta in a single UPDATE against the user row. Concurrent
// deltas to the same user commute; there is no read-modify-write anywhere.
func (l *Ledger) ApplyDelta(ctx context.Context, userID uint64, d Delta) error {
	res := l.db.WithContext(ctx).
		Model(&directory.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"points": gorm.Expr("points + ?", d.Points),
			"coins":  gorm.Expr("coins + ?", d.Coins),
			"xp":     gorm.Expr("xp + ?", d.XP),
		})
	if res.Error != nil {
		return apperr.Internal("failed to apply ledger delta", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

// Balance reads the current economy fields for a user.
func (l *Ledger) Balance(ctx context.Context, userID uint64) (Delta, error) {
	var u directory.User
	if err := l.db.WithContext(ctx).Select("points", "coins", "xp").First(&u, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return Delta{}, apperr.ErrUserNotFound
		}
		return Delta{}, apperr.Internal("failed to read balance", err)
	}
	return Delta{Points: u.Points, Coins: u.Coins, XP: u.XP}, nil
}
