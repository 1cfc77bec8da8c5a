package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/catering-app/controllers"
	"github.com/yeremiapane/catering-app/middlewares"
	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/services"
	"github.com/yeremiapane/catering-app/utils"
)

func setupUserRouter(db *gorm.DB) http.Handler {
	tokens := utils.NewJWTManager("controller-secret", time.Hour, nil)
	auth := services.NewAuthService(db, tokens)
	auth.SetHashCost(bcrypt.MinCost)
	userCtrl := controllers.NewUserController(auth)

	router := newRouter()
	router.POST("/users/register", userCtrl.Register)
	router.POST("/users/login", userCtrl.Login)
	router.GET("/users/profile", middlewares.AuthMiddleware(tokens), userCtrl.Profile)
	router.POST("/users/logout", middlewares.AuthMiddleware(tokens), userCtrl.Logout)
	return router
}

type authData struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func TestUserRegisterLoginProfileLogout(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)

	w, env := doJSON(t, router, "POST", "/users/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Status)
	var reg authData
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, "alice@example.com", reg.Email)
	assert.Equal(t, models.RoleCustomer, reg.Role)
	assert.NotEmpty(t, reg.Token)

	w, env = doJSON(t, router, "POST", "/users/login", map[string]string{
		"email": "alice@example.com", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login authData
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, reg.ID, login.ID)

	bearer := map[string]string{"Authorization": "Bearer " + login.Token}
	w, env = doJSON(t, router, "GET", "/users/profile", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"email":"alice@example.com"`)
	assert.NotContains(t, string(env.Data), "password")

	w, _ = doJSON(t, router, "POST", "/users/logout", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, "GET", "/users/profile", nil, bearer)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	router := setupUserRouter(db)
	body := map[string]string{"name": "Alice", "email": "alice@example.com", "password": "secret1"}

	w, _ := doJSON(t, router, "POST", "/users/register", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, router, "POST", "/users/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Status)
	assert.Equal(t, "User already exists", env.Message)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserRegisterBadInput(t *testing.T) {
	router := setupUserRouter(setupTestDB(t))

	w, _ := doJSON(t, router, "POST", "/users/register", map[string]string{"name": "A", "email": "not-an-email", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := doJSON(t, router, "POST", "/users/register", map[string]string{
		"name": "A", "email": "a@example.com", "password": "secret1", "role": "admin",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "cannot be self-registered")
}

func TestUserLoginFailure(t *testing.T) {
	router := setupUserRouter(setupTestDB(t))

	w, env := doJSON(t, router, "POST", "/users/login", map[string]string{"email": "ghost@example.com", "password": "whatever"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Message)

	w, _ = doJSON(t, router, "POST", "/users/login", map[string]string{"email": "ghost@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
