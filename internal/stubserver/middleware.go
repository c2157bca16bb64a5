package stubserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// requireAuth validates the bearer token and stores the account identifier
// in the request context. Tokens revoked by logout are rejected, which is
// what exercises the client's 401 eviction path.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		identifier, err := parseToken(s.secret, raw)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
		}

		s.mu.Lock()
		revoked := s.revoked[raw]
		_, known := s.accounts[identifier]
		s.mu.Unlock()
		if revoked || !known {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
		}

		c.Set("identifier", identifier)
		c.Set("bearer", raw)
		return next(c)
	}
}
