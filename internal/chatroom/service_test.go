package chatroom

import (
	"context"
	"io"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillswap/skillswap/internal/apperr"
	"github.com/skillswap/skillswap/internal/directory"
	"github.com/skillswap/skillswap/internal/live"
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
	if err := db.AutoMigrate(&directory.User{}, &Room{}, &Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// recordingPusher captures every fan-out so tests can assert on audience and
// payload without a running hub.
type recordingPusher struct {
	targets []uint64
	events  []live.Event
}

func (p *recordingPusher) Push(userID uint64, ev live.Event) {
	p.targets = append(p.targets, userID)
	p.events = append(p.events, ev)
}

func (p *recordingPusher) PushMany(userIDs []uint64, ev live.Event) {
	for _, id := range userIDs {
		p.Push(id, ev)
	}
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *recordingPusher) {
	t.Helper()
	db := openTestDB(t)
	pusher := &recordingPusher{}
	svc := NewService(NewRepo(db), directory.NewRepo(db), pusher, testLogger())
	return svc, db, pusher
}

func seedUser(t *testing.T, db *gorm.DB, name string) *directory.User {
	t.Helper()
	u := &directory.User{Name: name, Email: name + "@example.com", Points: directory.StartingPoints}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestGetOrCreate_IdempotentAcrossOrder(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	first, created, err := svc.GetOrCreate(ctx, alice.ID, bob.ID, "Guitar")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !created {
		t.Fatal("expected first call to create the room")
	}

	// reversed pair must resolve to the same row
	second, created, err := svc.GetOrCreate(ctx, bob.ID, alice.ID, "Guitar")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Fatal("expected second call to reuse the room")
	}
	if second.ID != first.ID {
		t.Fatalf("expected room %d, got %d", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&Room{}).Count(&count).Error; err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 room row, got %d", count)
	}
}

func TestGetOrCreate_DistinctSkillsDistinctRooms(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	guitar, _, err := svc.GetOrCreate(ctx, alice.ID, bob.ID, "Guitar")
	if err != nil {
		t.Fatalf("guitar room: %v", err)
	}
	piano, _, err := svc.GetOrCreate(ctx, alice.ID, bob.ID, "Piano")
	if err != nil {
		t.Fatalf("piano room: %v", err)
	}
	if guitar.ID == piano.ID {
		t.Fatal("expected distinct rooms for distinct skills")
	}
}

func TestGetOrCreate_WelcomeMessageOnce(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	room, _, err := svc.GetOrCreate(ctx, alice.ID, bob.ID, "Guitar")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := svc.GetOrCreate(ctx, bob.ID, alice.ID, "Guitar"); err != nil {
		t.Fatalf("reuse: %v", err)
	}

	msgs, err := svc.ListMessages(ctx, room.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one welcome message, got %d", len(msgs))
	}
	welcome := msgs[0]
	if welcome.SenderID != SystemSenderID {
		t.Fatalf("expected system sender, got %d", welcome.SenderID)
	}
	if welcome.SenderName != "System" {
		t.Fatalf("expected sender name System, got %q", welcome.SenderName)
	}
	if !strings.Contains(welcome.Body, "alice") || !strings.Contains(welcome.Body, "bob") {
		t.Fatalf("welcome body missing names: %q", welcome.Body)
	}
	if !strings.Contains(welcome.Body, "Guitar") {
		t.Fatalf("welcome body missing skill: %q", welcome.Body)
	}
}

func TestGetOrCreate_RejectsZeroIDs(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.GetOrCreate(context.Background(), 0, 2, "Guitar")
	if !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestPostMessage_FansOutToMembersOnly(t *testing.T) {
	svc, db, pusher := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedUser(t, db, "carol")

	room, _, err := svc.GetOrCreate(ctx, alice.ID, bob.ID, "Guitar")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	msg, err := svc.PostMessage(ctx, room.ID, alice.ID, "hello there")
	if err != nil {
		t.Fatalf("post message: %v", err)
	}
	if msg.SenderName != "alice" {
		t.Fatalf("expected resolved sender name, got %q", msg.SenderName)
	}

	if len(pusher.targets) != 2 {
		t.Fatalf("expected 2 push targets, got %v", pusher.targets)
	}
	seen := map[uint64]bool{}
	for _, id := range pusher.targets {
		seen[id] = true
	}
	if !seen[alice.ID] || !seen[bob.ID] {
		t.Fatalf("push audience wrong: %v", pusher.targets)
	}

	ev := pusher.events[0]
	if ev.Type != live.TypeChatMessage {
		t.Fatalf("expected chat_message event, got %q", ev.Type)
	}
	if ev.RoomID != room.ID {
		t.Fatalf("expected room id %d on event, got %d", room.ID, ev.RoomID)
	}
}

func TestPostMessage_Validation(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	room, _, err := svc.GetOrCreate(ctx, alice.ID, bob.ID, "Guitar")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, err := svc.PostMessage(ctx, room.ID, alice.ID, "   "); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("expected InvalidArgument for blank message, got %v", err)
	}
	if _, err := svc.PostMessage(ctx, 999, alice.ID, "hi"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound for unknown room, got %v", err)
	}
}

func TestListMessages_UnknownRoom(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListMessages(context.Background(), 42)
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestListRoomsForUser_OtherSide(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	if _, _, err := svc.GetOrCreate(ctx, alice.ID, bob.ID, "Guitar"); err != nil {
		t.Fatalf("create room: %v", err)
	}

	rooms, err := svc.ListRoomsForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(rooms))
	}
	if rooms[0].OtherUserID != alice.ID || rooms[0].OtherUserName != "alice" {
		t.Fatalf("unexpected other side: %+v", rooms[0])
	}
}
