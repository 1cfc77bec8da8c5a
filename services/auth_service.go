package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/utils"
)

const minPasswordLength = 6

var errInvalidCredentials = Unauthorized("Invalid email or password")

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// AuthService registers and authenticates users and issues their tokens.
type AuthService struct {
	db       *gorm.DB
	tokens   *utils.JWTManager
	hashCost int
}

func NewAuthService(db *gorm.DB, tokens *utils.JWTManager) *AuthService {
	return &AuthService{db: db, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

// SetHashCost changes the bcrypt cost for new passwords.
func (s *AuthService) SetHashCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	s.hashCost = cost
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer account. Staff and admin accounts cannot be
// created through self-registration.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	role := strings.ToLower(strings.TrimSpace(req.Role))

	switch {
	case req.Name == "":
		return nil, ValidationError("name is required")
	case req.Email == "":
		return nil, ValidationError("email is required")
	case len(req.Password) < minPasswordLength:
		return nil, ValidationError("password must be at least %d characters", minPasswordLength)
	case role != "" && role != models.RoleCustomer:
		return nil, ValidationError("role %q cannot be self-registered", req.Role)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		return nil, wrapDBError("user", err)
	}
	if existing > 0 {
		return nil, Conflict("User already exists", nil)
	}

	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, models.RoleCustomer)
	if err != nil {
		if IsKind(err, KindConflict) {
			return nil, Conflict("User already exists", err)
		}
		return nil, err
	}

	utils.InfoLogger.Infof("New user registered: %s (role=%s)", user.Email, user.Role)
	return s.issue(user)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, PersistenceError("failed to hash password", err)
	}
	user := models.User{Name: name, Email: email, Password: string(hashed), Role: role}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, wrapDBError("user", err)
	}
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, wrapDBError("user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, errInvalidCredentials
	}

	utils.InfoLogger.Infof("User %s logged in", user.Email)
	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, PersistenceError("failed to issue token", err)
	}
	return &AuthResult{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role, Token: token}, nil
}

func (s *AuthService) Profile(ctx context.Context, id Identity) (*models.User, error) {
	if !id.Authenticated() {
		return nil, Unauthorized("authentication required")
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id.UserID).Error; err != nil {
		return nil, wrapDBError("user", err)
	}
	return &user, nil
}

// Logout revokes the token until it expires.
func (s *AuthService) Logout(token string, claims *utils.CustomClaims) {
	s.tokens.RevokeToken(token, claims)
}

// EnsureAdmin creates the configured admin account when no user with that
// email exists yet. Existing accounts are left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if name == "" {
		name = "Administrator"
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return wrapDBError("user", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := s.createUser(ctx, name, email, password, models.RoleAdmin); err != nil {
		return err
	}
	utils.InfoLogger.Infof("Seeded admin account %s", email)
	return nil
}
