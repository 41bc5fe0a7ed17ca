package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap/internal/common"
	"github.com/skillswap/skillswap/internal/directory"
)

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid "+name)
		return 0, false
	}
	return id, true
}

type createUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Name == "" || req.Email == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "name and email required")
		return
	}

	user := directory.User{
		Name:     req.Name,
		Email:    req.Email,
		Location: req.Location,
		Points:   directory.StartingPoints,
	}
	if err := h.Dir.CreateUser(c.Request.Context(), &user); err != nil {
		common.FailErr(c, err)
		return
	}

	common.OK(c, user)
}

func (h *Handler) GetUserByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.Dir.GetUser(c.Request.Context(), id)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, user)
}

func (h *Handler) GetUserBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	bal, err := h.Ledger.Balance(c.Request.Context(), id)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{
		"points": bal.Points,
		"coins":  bal.Coins,
		"xp":     bal.XP,
	})
}

type createSkillReq struct {
	UserID       uint64 `json:"user_id"`
	SkillName    string `json:"skill_name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Price        int64  `json:"price"`
	Availability string `json:"availability"`
}

func (h *Handler) CreateSkill(c *gin.Context) {
	var req createSkillReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.UserID == 0 || req.SkillName == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "user_id and skill_name required")
		return
	}

	if _, err := h.Dir.GetUser(c.Request.Context(), req.UserID); err != nil {
		common.FailErr(c, err)
		return
	}

	skill := directory.Skill{
		UserID:       req.UserID,
		SkillName:    req.SkillName,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		Availability: req.Availability,
	}
	if err := h.Dir.CreateSkill(c.Request.Context(), &skill); err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, skill)
}

func (h *Handler) ListSkills(c *gin.Context) {
	skills, err := h.Dir.ListSkills(c.Request.Context())
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"skills": skills})
}

func (h *Handler) ListUserSkills(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	skills, err := h.Dir.ListUserSkills(c.Request.Context(), id)
	if err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"skills": skills})
}

func (h *Handler) DeleteSkill(c *gin.Context) {
	id, ok := paramID(c, "skill_id")
	if !ok {
		return
	}

	if err := h.Dir.DeleteSkill(c.Request.Context(), id); err != nil {
		common.FailErr(c, err)
		return
	}
	common.OK(c, gin.H{"deleted": true})
}
