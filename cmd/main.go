package main

import (
	"net/http"
	"time"

	"github.com/codecraftak/arcade-backend/internal/game"
	"github.com/codecraftak/arcade-backend/internal/invite"
	"github.com/codecraftak/arcade-backend/internal/pkg/middleware"
	"github.com/codecraftak/arcade-backend/internal/pkg/pubsub"
	"github.com/codecraftak/arcade-backend/internal/user"
	"github.com/codecraftak/arcade-backend/internal/wallet"
	"github.com/codecraftak/arcade-backend/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupViper()
	setupZerolog()
	pubsub.InitPubSub()
	db := setupDb()
	apiRouter := setupApiRouter(db)

	defer func() { pubsub.CloseClient() }()

	port := viper.GetString("PORT")
	server := &http.Server{
		Addr:         port,
		Handler:      apiRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	server.ListenAndServe()
}

func setupDb() *gorm.DB {
	dbUrl := viper.GetString("DB_URL")

	db, err := gorm.Open(postgres.Open(dbUrl), &gorm.Config{})

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	sqlDb, _ := db.DB()

	sqlDb.SetMaxOpenConns(50)
	sqlDb.SetConnMaxLifetime(time.Minute * 10)

	return db
}

func setupApiRouter(db *gorm.DB) *gin.Engine {
	apiRouter := gin.Default()
	routerGroup := apiRouter.Group("/arcade-api")

	middleware.RegisterGlobalMiddleware(apiRouter)

	ws.RegisterRoutes(routerGroup)
	game.RegisterRoutes(routerGroup, db)
	invite.RegisterRoutes(routerGroup, db)
	wallet.RegisterRoutes(routerGroup, db)
	user.RegisterRoutes(routerGroup, db)

	return apiRouter
}

func setupViper() {
	viper.AutomaticEnv()
	viper.SetConfigFile("./.env")

	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("WIN_REWARD", 150)
	viper.SetDefault("STARTING_BALANCE", 1000)
}

func setupZerolog() {
	zerolog.LevelFieldName = "severity"
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
