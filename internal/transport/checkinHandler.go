package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poolpass/pool-booking/internal/service"
)

type CheckInHandler struct {
	checkInService service.CheckInService
}

func NewCheckInHandler(checkInService service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

type issueTokenRequest struct {
	ReservationID int64 `json:"reservation_id" binding:"required"`
	MemberID      int64 `json:"member_id" binding:"required"`
}

type consumeTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	MemberID int64  `json:"member_id" binding:"required"`
}

func (h *CheckInHandler) IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenStr, err := h.checkInService.IssueToken(c.Request.Context(), req.ReservationID, req.MemberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenStr})
}

func (h *CheckInHandler) ConsumeToken(c *gin.Context) {
	var req consumeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.checkInService.ConsumeToken(c.Request.Context(), req.Token, req.MemberID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "checked in"})
}
