package invite

import (
	"net/http"
	"strconv"

	"github.com/codecraftak/arcade-backend/internal/pkg/middleware"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"github.com/codecraftak/arcade-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SendInviteRequest struct {
	RecipientId uint64 `json:"recipientId"`
}

type inviteHandler struct {
	inviteService *inviteService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := inviteHandler{
		inviteService: newInviteService(db),
	}

	rg.POST("/game/:id/invite", middleware.VerifyAuthToken, handler.sendInvite)

	routes := rg.Group("/invite")
	routes.GET("", middleware.VerifyAuthToken, handler.getPendingInvites)
	routes.POST("/:id/accept", middleware.VerifyAuthToken, handler.acceptInvite)
	routes.POST("/:id/decline", middleware.VerifyAuthToken, handler.declineInvite)
}

func (ih *inviteHandler) sendInvite(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	body := SendInviteRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	invite, err := ih.inviteService.sendInvite(gameId, utils.GetUserId(c), body.RecipientId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, invite)
}

func (ih *inviteHandler) getPendingInvites(c *gin.Context) {
	invites, err := ih.inviteService.getPendingInvites(utils.GetUserId(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, invites)
}

func (ih *inviteHandler) acceptInvite(c *gin.Context) {
	inviteId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	session, err := ih.inviteService.acceptInvite(inviteId, utils.GetUserId(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (ih *inviteHandler) declineInvite(c *gin.Context) {
	inviteId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	if err := ih.inviteService.declineInvite(inviteId, utils.GetUserId(c)); err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.Status(http.StatusNoContent)
}
