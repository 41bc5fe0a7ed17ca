package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/skillswap/skillswap/internal/common"
	"github.com/skillswap/skillswap/internal/config"
	"github.com/skillswap/skillswap/internal/exchange"
	"github.com/skillswap/skillswap/internal/httpapi/handlers"
	"github.com/skillswap/skillswap/internal/httpapi/middleware"
	"github.com/skillswap/skillswap/internal/live"
	"github.com/skillswap/skillswap/internal/store/redisstore"
)

func NewRouter(gdb *gorm.DB, cfg config.Config, log *logrus.Logger, hub *live.Hub, presence *redisstore.Store, publisher exchange.EventPublisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(gdb, cfg, log, hub, presence, publisher)

	r.GET("/ping", h.Ping)

	// user/skill directory (external collaborator surface)
	r.POST("/users", h.CreateUser)
	r.GET("/users/:id", h.GetUserByID)
	r.GET("/users/:id/balance", h.GetUserBalance)
	r.GET("/users/:id/skills", h.ListUserSkills)
	r.POST("/skills", h.CreateSkill)
	r.GET("/skills", h.ListSkills)
	r.DELETE("/skills/:skill_id", h.DeleteSkill)

	// skill requests
	r.POST("/requests", h.SendRequest)
	r.GET("/requests/:user_id", h.ListRequests)
	r.POST("/requests/:request_id/status", h.UpdateRequestStatus)
	r.DELETE("/requests/:request_id", h.CancelRequest)

	// proposals
	r.POST("/notifications", h.SendNotification)
	r.GET("/notifications/:user_id", h.ListNotifications)
	r.POST("/notifications/:notification_id/status", h.UpdateNotificationStatus)

	// chat
	r.POST("/chat/rooms", h.CreateOrGetRoom)
	r.GET("/chat/rooms/:user_id", h.ListChatRooms)
	r.POST("/chat/messages", h.PostChatMessage)
	r.GET("/chat/messages/:chat_room_id", h.ListChatMessages)

	// live delivery
	r.GET("/events/stream/:user_id", h.StreamEvents)
	r.GET("/presence/:user_id", h.GetPresence)

	return r
}
