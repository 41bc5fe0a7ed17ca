package ledger

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillswap/skillswap/internal/apperr"
	"github.com/skillswap/skillswap/internal/directory"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	// a second pooled connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&directory.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *directory.User {
	t.Helper()
	u := &directory.User{Name: name, Email: name + "@example.com", Points: directory.StartingPoints}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestApplyDelta_AddsAllFields(t *testing.T) {
	db := openTestDB(t)
	lg := New(db)
	u := seedUser(t, db, "alice")

	if err := lg.ApplyDelta(context.Background(), u.ID, Delta{Points: 10, Coins: 2, XP: 15}); err != nil {
		t.Fatalf("apply delta: %v", err)
	}

	bal, err := lg.Balance(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Points != 60 || bal.Coins != 2 || bal.XP != 15 {
		t.Fatalf("unexpected balance: %+v", bal)
	}
}

func TestApplyDelta_NegativeAndCommutes(t *testing.T) {
	db := openTestDB(t)
	lg := New(db)
	u := seedUser(t, db, "bob")

	// opposite deltas in either order land back on the start value
	if err := lg.ApplyDelta(context.Background(), u.ID, Delta{Points: -5}); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := lg.ApplyDelta(context.Background(), u.ID, Delta{Points: 5}); err != nil {
		t.Fatalf("credit: %v", err)
	}

	bal, err := lg.Balance(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Points != directory.StartingPoints {
		t.Fatalf("expected %d points, got %d", directory.StartingPoints, bal.Points)
	}
}

func TestApplyDelta_UnknownUser(t *testing.T) {
	db := openTestDB(t)
	lg := New(db)

	err := lg.ApplyDelta(context.Background(), 999, Delta{Points: 1})
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	if _, err := lg.Balance(context.Background(), 999); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound from balance, got %v", err)
	}
}
