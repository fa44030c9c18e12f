package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, username, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newProbeRouter(secret string, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticated(secret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username"), "role": c.GetString("role")})
	})
	router.GET("/probe", handlers...)
	return router
}

func TestAuthenticated_MissingHeader(t *testing.T) {
	router := newProbeRouter("secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticated_MalformedHeader(t *testing.T) {
	router := newProbeRouter("secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticated_BadSignature(t *testing.T) {
	router := newProbeRouter("secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "alice", models.RoleUser))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticated_InjectsClaims(t *testing.T) {
	router := newProbeRouter("secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "alice", models.RoleUser))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestRequireRole_ForbidsNonAdmin(t *testing.T) {
	router := newProbeRouter("secret", RequireRole(models.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "alice", models.RoleUser))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_AllowsAdmin(t *testing.T) {
	router := newProbeRouter("secret", RequireRole(models.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "root", models.RoleAdmin))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{models.ErrValidation, http.StatusBadRequest},
		{models.ErrInvalidQuantity, http.StatusBadRequest},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrProductNotFound, http.StatusNotFound},
		{models.ErrOrderNotFound, http.StatusNotFound},
		{models.ErrClientNotFound, http.StatusNotFound},
		{models.ErrUserExists, http.StatusConflict},
		{models.ErrInsufficientStock, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, statusForError(tc.err), "error: %v", tc.err)
	}
}

func TestValidator_DateFormat(t *testing.T) {
	v := newValidator()

	valid := addOrderRequest{ClientID: 1, Date: "2024-01-04"}
	assert.NoError(t, v.Struct(&valid))

	for _, date := range []string{"01/04/2024", "2024-1-4", "not a date"} {
		bad := addOrderRequest{ClientID: 1, Date: date}
		err := v.Struct(&bad)
		require.Error(t, err, "date: %s", date)
		assert.Contains(t, validationMessage(err), "YYYY-MM-DD")
	}
}

func TestValidator_BuyRequest(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Struct(&buyRequest{ProductID: 1, Quantity: 2}))
	assert.Error(t, v.Struct(&buyRequest{ProductID: 1}))
	assert.Error(t, v.Struct(&buyRequest{Quantity: 2}))
}
