package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const profileKey = "profile"

// JWTIdentity проверяет Bearer токен (HS256) и кладёт в контекст профиль
// пользователя из claim sub. Токен только сопоставляет запрос с uid.
func JWTIdentity(secret string, profiles *service.ProfileService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			uid, err := tok.Claims.GetSubject()
			if err != nil || uid == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			profile, err := profiles.Resolve(c.Request().Context(), uid)
			if err != nil {
				if errors.Is(err, service.ErrForbidden) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "no profile for this account"})
				}
				return writeError(c, err)
			}

			c.Set(profileKey, profile)
			return next(c)
		}
	}
}

// currentProfile достаёт профиль, положенный JWTIdentity
func currentProfile(c echo.Context) *model.UserProfile {
	p, _ := c.Get(profileKey).(*model.UserProfile)
	return p
}
