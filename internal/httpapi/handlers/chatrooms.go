package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap/internal/common"
)

type createRoomReq struct {
	User1ID   uint64 `json:"user1_id"`
	User2ID   uint64 `json:"user2_id"`
	SkillName string `json:"skill_name"`
}

// CreateOrGetRoom lets two users open their canonical room proactively,
// without waiting for an acceptance.
func (h *Handler) CreateOrGetRoom(c *gin.Context) {
	var req createRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	room, created, err := h.Rooms.GetOrCreate(c.Request.Context(), req.User1ID, req.User2ID, req.SkillName)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"chat_room_id": room.ID,
		"created":      created,
	})
}

type postMessageReq struct {
	ChatRoomID uint64 `json:"chat_room_id"`
	SenderID   uint64 `json:"sender_id"`
	Message    string `json:"message"`
}

func (h *Handler) PostChatMessage(c *gin.Context) {
	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	msg, err := h.Rooms.PostMessage(c.Request.Context(), req.ChatRoomID, req.SenderID, req.Message)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"message": msg})
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	id, ok := paramID(c, "chat_room_id")
	if !ok {
		return
	}

	msgs, err := h.Rooms.ListMessages(c.Request.Context(), id)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"messages": msgs})
}

func (h *Handler) ListChatRooms(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	rooms, err := h.Rooms.ListRoomsForUser(c.Request.Context(), id)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"rooms": rooms})
}
