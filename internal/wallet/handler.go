package wallet

import (
	"net/http"

	"github.com/codecraftak/arcade-backend/internal/pkg/middleware"
	"github.com/codecraftak/arcade-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type walletHandler struct {
	wallet *Service
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := walletHandler{
		wallet: NewService(db),
	}

	routes := rg.Group("/wallet")
	routes.GET("", middleware.VerifyAuthToken, handler.getWallet)
	routes.GET("/entries", middleware.VerifyAuthToken, handler.getEntries)
}

func (h *walletHandler) getWallet(c *gin.Context) {
	wallet, err := h.wallet.FindByUserId(utils.GetUserId(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

func (h *walletHandler) getEntries(c *gin.Context) {
	entries, err := h.wallet.Entries(utils.GetUserId(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, entries)
}
