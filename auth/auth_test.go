package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	t.Run("should round trip the user identity", func(t *testing.T) {
		req := require.New(t)

		token, err := issuer.GenerateToken("user-1", []string{"user"})
		req.NoError(err)

		claims, err := issuer.ValidateToken(token)
		req.NoError(err)
		req.Equal("user-1", claims.UserID)
		req.Equal([]string{"user"}, claims.Roles)
		req.Equal("chat-feed", claims.Issuer)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)

		token, err := NewTokenIssuer("other-secret", time.Hour).GenerateToken("user-1", nil)
		req.NoError(err)

		_, err = issuer.ValidateToken(token)
		req.Error(err)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)
		past := NewTokenIssuer("test-secret", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, err := past.GenerateToken("user-1", nil)
		req.NoError(err)

		_, err = issuer.ValidateToken(token)
		req.Error(err)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := issuer.ValidateToken("not-a-jwt")
		require.Error(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewTokenIssuer("test-secret", time.Hour)

	router := gin.New()
	router.GET("/me", Authenticate(issuer), func(c *gin.Context) {
		userID, ok := UserIDFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID)
	})

	token, err := issuer.GenerateToken("user-42", []string{"user"})
	require.NoError(t, err)

	t.Run("should pass the user id downstream", func(t *testing.T) {
		req := require.New(t)
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
		req.Equal("user-42", w.Body.String())
	})

	t.Run("should accept the token as query parameter", func(t *testing.T) {
		req := require.New(t)
		r := httptest.NewRequest(http.MethodGet, "/me?access_token="+token, nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
	})

	t.Run("should refuse missing or invalid tokens", func(t *testing.T) {
		req := require.New(t)
		for _, header := range []string{"", "Bearer ", "Bearer nope", "Basic abc"} {
			r := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, r)

			req.Equal(http.StatusUnauthorized, w.Code, header)
		}
	})
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	router := gin.New()
	router.Use(Authenticate(issuer), RateLimit(0.001, 2))
	router.POST("/write", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/read", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(method, path, userID string) int {
		token, err := issuer.GenerateToken(userID, nil)
		require.NoError(t, err)
		r := httptest.NewRequest(method, path, nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		return w.Code
	}

	t.Run("should refuse writes above the burst", func(t *testing.T) {
		req := require.New(t)
		req.Equal(http.StatusNoContent, send(http.MethodPost, "/write", "user-1"))
		req.Equal(http.StatusNoContent, send(http.MethodPost, "/write", "user-1"))
		req.Equal(http.StatusTooManyRequests, send(http.MethodPost, "/write", "user-1"))
	})

	t.Run("should keep one bucket per user", func(t *testing.T) {
		req := require.New(t)
		req.Equal(http.StatusNoContent, send(http.MethodPost, "/write", "user-2"))
	})

	t.Run("should never throttle reads", func(t *testing.T) {
		req := require.New(t)
		for range 5 {
			req.Equal(http.StatusNoContent, send(http.MethodGet, "/read", "user-1"))
		}
	})
}
