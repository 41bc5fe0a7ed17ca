package directory

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillswap/skillswap/internal/apperr"
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
	if err := db.AutoMigrate(&User{}, &Skill{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateUser_DefaultsAndDuplicateEmail(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	u := &User{Name: "alice", Email: "alice@example.com"}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Points != StartingPoints {
		t.Fatalf("expected %d starting points, got %d", StartingPoints, u.Points)
	}

	dup := &User{Name: "alice2", Email: "alice@example.com"}
	if err := repo.CreateUser(ctx, dup); !apperr.Is(err, apperr.CodeConflict) {
		t.Fatalf("expected Conflict on duplicate email, got %v", err)
	}
}

func TestResolveName(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	u := &User{Name: "bob", Email: "bob@example.com"}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	name, err := repo.ResolveName(ctx, u.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if name != "bob" {
		t.Fatalf("expected bob, got %q", name)
	}

	// the zero id is the machine sender
	name, err = repo.ResolveName(ctx, 0)
	if err != nil {
		t.Fatalf("resolve system: %v", err)
	}
	if name != "System" {
		t.Fatalf("expected System, got %q", name)
	}

	if _, err := repo.ResolveName(ctx, 999); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSkillLifecycle(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	owner := &User{Name: "carol", Email: "carol@example.com", Location: "Berlin"}
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("create user: %v", err)
	}

	s := &Skill{UserID: owner.ID, SkillName: "Guitar", Category: "Music", Price: 10}
	if err := repo.CreateSkill(ctx, s); err != nil {
		t.Fatalf("create skill: %v", err)
	}

	listed, err := repo.ListSkills(ctx)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(listed))
	}
	if listed[0].UserName != "carol" || listed[0].Location != "Berlin" {
		t.Fatalf("owner fields missing: %+v", listed[0])
	}

	mine, err := repo.ListUserSkills(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list user skills: %v", err)
	}
	if len(mine) != 1 || mine[0].SkillName != "Guitar" {
		t.Fatalf("unexpected user skills: %+v", mine)
	}

	if err := repo.DeleteSkill(ctx, s.ID); err != nil {
		t.Fatalf("delete skill: %v", err)
	}
	if err := repo.DeleteSkill(ctx, s.ID); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound on second delete, got %v", err)
	}
}
