package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap/internal/common"
	"github.com/skillswap/skillswap/internal/exchange"
)

type sendRequestReq struct {
	FromUser uint64 `json:"from_user"`
	ToUser   uint64 `json:"to_user"`
	SkillID  uint64 `json:"skill_id"`
}

func (h *Handler) SendRequest(c *gin.Context) {
	var req sendRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	created, err := h.Exchange.SendRequest(c.Request.Context(), req.FromUser, req.ToUser, req.SkillID)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"request":         created,
		"points_deducted": 5,
	})
}

func (h *Handler) ListRequests(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	reqs, err := h.Exchange.ListRequestsForUser(c.Request.Context(), id)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"requests": reqs})
}

type updateRequestStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateRequestStatus(c *gin.Context) {
	id, ok := paramID(c, "request_id")
	if !ok {
		return
	}
	var req updateRequestStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	if err := h.Exchange.UpdateRequestStatus(c.Request.Context(), id, exchange.RequestStatus(req.Status)); err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"status": req.Status})
}

func (h *Handler) CancelRequest(c *gin.Context) {
	id, ok := paramID(c, "request_id")
	if !ok {
		return
	}

	if err := h.Exchange.CancelRequest(c.Request.Context(), id); err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"cancelled": true, "points_refunded": 5})
}

type sendNotificationReq struct {
	FromUserID uint64 `json:"from_user_id"`
	ToUserID   uint64 `json:"to_user_id"`
	SkillName  string `json:"skill_name"`
	Duration   string `json:"duration"`
	Message    string `json:"message"`
}

func (h *Handler) SendNotification(c *gin.Context) {
	var req sendNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	n, err := h.Exchange.SendProposal(c.Request.Context(), req.FromUserID, req.ToUserID, req.SkillName, req.Duration, req.Message)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"notification": n})
}

func (h *Handler) ListNotifications(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	ns, err := h.Exchange.ListNotificationsForUser(c.Request.Context(), id)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"notifications": ns})
}

type updateNotificationStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateNotificationStatus(c *gin.Context) {
	id, ok := paramID(c, "notification_id")
	if !ok {
		return
	}
	var req updateNotificationStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	status := exchange.NotificationStatus(req.Status)
	roomID, err := h.Exchange.UpdateProposalStatus(c.Request.Context(), id, status)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	data := gin.H{"status": req.Status}
	if status == exchange.NotificationAccepted && roomID != 0 {
		data["chat_room_id"] = roomID
	}
	common.OK(c, data)
}
