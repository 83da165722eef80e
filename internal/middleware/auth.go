package middleware

import (
	"errors"
	"net/http"
	"strings"
	"sweepstakes-payments/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const callerKey = "caller"

// Claims are the fields the app session token carries.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware requires an HS256 bearer token and stores the caller on the context.
func AuthMiddleware(secret string) echo.MiddlewareFunc {
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := parseToken(strings.TrimPrefix(authHeader, "Bearer "), key)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(callerKey, &dto.Caller{
				UserID: claims.Subject,
				Email:  claims.Email,
			})
			return next(c)
		}
	}
}

func parseToken(tokenString string, key []byte) (*Claims, error) {
	if len(key) == 0 {
		return nil, errors.New("auth secret not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Email == "" {
		return nil, errors.New("token has no caller email")
	}

	return claims, nil
}

func CallerFromContext(c echo.Context) *dto.Caller {
	caller, _ := c.Get(callerKey).(*dto.Caller)
	return caller
}
