// Package auth handles dashboard logins. Users live in a JSON file
// with a hard seat cap; passwords are bcrypt hashed and sessions are
// stateless JWTs.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"woodash/pkg/models"
)

// DefaultMaxUsers caps the seat count when the store file is created.
const DefaultMaxUsers = 5

var (
	// ErrInvalidCredentials covers unknown email and bad password
	// alike so login failures reveal nothing.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserLimitReached is returned when the seat cap is full.
	ErrUserLimitReached = errors.New("user limit reached")
	// ErrUserExists is returned on duplicate email registration.
	ErrUserExists = errors.New("user already exists")
)

// Service authenticates against a JSON user file and issues JWTs.
type Service struct {
	storePath string
	jwtSecret []byte
	tokenTTL  time.Duration

	mu sync.Mutex
}

// NewService creates the auth service. storePath is where users.json
// lives; the file is created on first registration.
func NewService(storePath, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		storePath: storePath,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the public user fields.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	User      struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
}

// TokenClaims are the JWT claims issued at login.
type TokenClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) loadStore() (*models.UserFile, error) {
	data, err := os.ReadFile(s.storePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.UserFile{MaxUsers: DefaultMaxUsers, CreatedAt: time.Now()}, nil
		}
		return nil, fmt.Errorf("failed to read user store: %w", err)
	}
	var store models.UserFile
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to parse user store: %w", err)
	}
	if store.MaxUsers == 0 {
		store.MaxUsers = DefaultMaxUsers
	}
	return &store, nil
}

func (s *Service) saveStore(store *models.UserFile) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.storePath, data, 0o600)
}

// Login authenticates a user and returns a signed token.
func (s *Service) Login(req LoginRequest) (*LoginResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.loadStore()
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user *models.User
	for i := range store.Users {
		if strings.ToLower(store.Users[i].Email) == email {
			user = &store.Users[i]
			break
		}
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.saveStore(store); err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	resp := &LoginResponse{Token: token, ExpiresIn: int64(s.tokenTTL.Seconds())}
	resp.User.ID = user.ID
	resp.User.Email = user.Email
	resp.User.Name = user.Name
	resp.User.Role = user.Role
	return resp, nil
}

// Register adds a user to the store, respecting the seat cap. Intended
// for the ops CLI, not an HTTP surface.
func (s *Service) Register(email, name, password, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.loadStore()
	if err != nil {
		return nil, err
	}
	if len(store.Users) >= store.MaxUsers {
		return nil, ErrUserLimitReached
	}

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range store.Users {
		if strings.ToLower(u.Email) == email {
			return nil, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = "viewer"
	}

	user := models.User{
		ID:        nextID(store.Users),
		Email:     email,
		Name:      name,
		Password:  string(hash),
		Role:      role,
		CreatedAt: time.Now(),
		IsActive:  true,
	}
	store.Users = append(store.Users, user)
	if err := s.saveStore(store); err != nil {
		return nil, err
	}
	return &user, nil
}

// ValidateToken validates and parses a JWT issued by Login.
func (s *Service) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func (s *Service) generateToken(user *models.User) (string, error) {
	claims := TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "woodash",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func nextID(users []models.User) int {
	max := 0
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}
