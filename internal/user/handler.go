package user

import (
	"net/http"
	"strings"

	"github.com/codecraftak/arcade-backend/internal/pkg/middleware"
	"github.com/codecraftak/arcade-backend/internal/pkg/pubsub"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"github.com/codecraftak/arcade-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type userHandler struct {
	users  *UserService
	bridge *identityBridge
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := userHandler{
		users:  &UserService{Db: db},
		bridge: &identityBridge{db: db},
	}

	routes := rg.Group("/user")
	routes.GET("/me", middleware.VerifyAuthToken, handler.me)
	routes.GET("", middleware.VerifyAuthToken, handler.search)

	go pubsub.Subscribe(pubsub.SubscriptionHandler{
		SubscriptionId: "arcade.platform.events.user-provisioned-sub",
		Handler:        handler.bridge.handleUserProvisioned,
	})
}

func (h userHandler) me(c *gin.Context) {
	user, err := h.users.FindById(utils.GetUserId(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h userHandler) search(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	users, err := h.users.Search(username)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, users)
}
