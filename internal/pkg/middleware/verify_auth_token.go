package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"github.com/codecraftak/arcade-backend/internal/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/gin-gonic/gin"
)

const (
	accessTokenRequired string = "error.token.required"
	accessTokenInvalid  string = "error.token.invalid"
)

// VerifyAuthToken resolves the caller's player id from the platform-issued
// bearer token. Identity lives outside the engine; all this middleware trusts
// is the signed subject claim.
func VerifyAuthToken(context *gin.Context) {
	authHeader := context.Request.Header.Get("Authorization")
	tokenValue := strings.TrimSpace(strings.ReplaceAll(authHeader, "Bearer", ""))
	if tokenValue == "" {
		log.Warn().Msg("Token missing: 401")
		context.AbortWithStatusJSON(
			http.StatusUnauthorized,
			reject.NewProblem().
				WithTitle("Missing access token").
				WithStatus(http.StatusUnauthorized).
				WithCode(accessTokenRequired).
				Build())
		return
	}

	userId, err := parseSubject(tokenValue)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Error verifying token: %s", err.Error()))
		context.AbortWithStatusJSON(
			http.StatusUnauthorized,
			reject.NewProblem().
				WithTitle("Cannot verify access token").
				WithStatus(http.StatusUnauthorized).
				WithCode(accessTokenInvalid).
				WithDetail(err.Error()).
				Build())
		return
	}

	utils.SetUserIdCtx(userId, context)
}

func parseSubject(tokenValue string) (uint64, error) {
	token, err := jwt.Parse(tokenValue, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(viper.GetString("JWT_SECRET")), nil
	})
	if err != nil {
		return 0, err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}

	return strconv.ParseUint(subject, 10, 64)
}
