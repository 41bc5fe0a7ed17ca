package db

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillswap/skillswap/internal/chatroom"
	"github.com/skillswap/skillswap/internal/directory"
	"github.com/skillswap/skillswap/internal/events"
	"github.com/skillswap/skillswap/internal/exchange"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return gdb, nil
}

// Migrate creates or updates every relation the coordinator owns. Cascade
// deletes hang off the users table so removing a user removes their
// requests, notifications, rooms and messages.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&directory.User{},
		&directory.Skill{},
		&exchange.SkillRequest{},
		&exchange.Notification{},
		&chatroom.Room{},
		&chatroom.Message{},
		&events.DomainEvent{},
	)
}
