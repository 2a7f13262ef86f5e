package game

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/codecraftak/arcade-backend/internal/pkg/middleware"
	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"github.com/codecraftak/arcade-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateGameRequest struct {
	GameType  model.GameType `json:"gameType"`
	BetAmount int64          `json:"betAmount"`
}

// PlayMoveRequest wraps the raw game-type-tagged move payload. MoveId is an
// optional idempotency key; resubmitting the same id is rejected without
// side effects.
type PlayMoveRequest struct {
	MoveId string          `json:"moveId"`
	Move   json.RawMessage `json:"-"`
}

type gameHandler struct {
	gameService *gameService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := gameHandler{
		gameService: newGameService(db),
	}

	routes := rg.Group("/game")
	routes.POST("", middleware.VerifyAuthToken, handler.createGame)
	routes.GET("", middleware.VerifyAuthToken, handler.getGames)
	routes.GET("/:id", middleware.VerifyAuthToken, handler.getGame)
	routes.POST("/:id/join", middleware.VerifyAuthToken, handler.joinGame)
	routes.DELETE("/:id", middleware.VerifyAuthToken, handler.cancelGame)
	routes.GET("/:id/moves", middleware.VerifyAuthToken, handler.getMoves)
	routes.POST("/:id/moves", middleware.VerifyAuthToken, handler.playMove)
}

func (gh *gameHandler) createGame(c *gin.Context) {
	body := CreateGameRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	session, err := gh.gameService.createSession(utils.GetUserId(c), body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (gh *gameHandler) getGames(c *gin.Context) {
	page, err := utils.NewPageRequest(c)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	userId := utils.GetUserId(c)
	onlyMine := c.Query("mine") == "true"

	games, gameCount, err := gh.gameService.getGames(page, userId, onlyMine)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	response := utils.NewPageResponse[model.GameSession]().
		WithItems(games).
		WithItemCount(*gameCount)

	nextToken := checkNextPageToken(page, *gameCount)
	if nextToken != nil {
		response.WithNextPageToken(*nextToken)
	}

	c.JSON(http.StatusOK, response.Build())
}

func (gh *gameHandler) getGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	session, err := gh.gameService.getGame(gameId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (gh *gameHandler) joinGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	session, err := gh.gameService.joinSession(gameId, utils.GetUserId(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (gh *gameHandler) cancelGame(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	if err := gh.gameService.cancelSession(gameId, utils.GetUserId(c)); err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.Status(http.StatusNoContent)
}

func (gh *gameHandler) getMoves(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	moves, err := gh.gameService.getMoves(gameId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, moves)
}

func (gh *gameHandler) playMove(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	raw, readErr := c.GetRawData()
	if readErr != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	body := PlayMoveRequest{Move: raw}
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	session, err := gh.gameService.applyMove(gameId, utils.GetUserId(c), body)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, session)
}

func checkNextPageToken(currPage utils.PageRequest, gameCount int64) *int64 {
	if int(gameCount) > (currPage.Token+1)*currPage.Size {
		nextToken := int64(currPage.Token + 1)
		return &nextToken
	}
	return nil
}
