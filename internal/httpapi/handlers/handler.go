package handlers

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap/internal/chatroom"
	"github.com/skillswap/skillswap/internal/config"
	"github.com/skillswap/skillswap/internal/directory"
	"github.com/skillswap/skillswap/internal/exchange"
	"github.com/skillswap/skillswap/internal/ledger"
	"github.com/skillswap/skillswap/internal/live"
	"github.com/skillswap/skillswap/internal/store/redisstore"
)

type Handler struct {
	DB       *gorm.DB
	Cfg      config.Config
	Log      *logrus.Logger
	Dir      *directory.Repo
	Ledger   *ledger.Ledger
	Rooms    *chatroom.Service
	Exchange *exchange.Service
	Hub      *live.Hub
	Presence *redisstore.Store
}

// NewHandler wires the stores together. presence and publisher may be nil in
// queue-less or cache-less setups; everything else is required.
func NewHandler(gdb *gorm.DB, cfg config.Config, log *logrus.Logger, hub *live.Hub, presence *redisstore.Store, publisher exchange.EventPublisher) *Handler {
	dir := directory.NewRepo(gdb)
	lg := ledger.New(gdb)
	rooms := chatroom.NewService(chatroom.NewRepo(gdb), dir, hub, log)
	exch := exchange.NewService(gdb, exchange.NewRepo(gdb), lg, dir, rooms, hub, publisher, log)

	return &Handler{
		DB:       gdb,
		Cfg:      cfg,
		Log:      log,
		Dir:      dir,
		Ledger:   lg,
		Rooms:    rooms,
		Exchange: exch,
		Hub:      hub,
		Presence: presence,
	}
}
