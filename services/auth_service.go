package services

import (
	"errors"
	"strings"
	"time"

	"jotfox-notes/jotfox/broker"
	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/utils/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

type AuthServiceInterface interface {
	Register(db *database.Database, email, password string) (models.User, error)
	Login(db *database.Database, email, password string) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
}

type AuthService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
}

func NewAuthService(jwtSecret string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
	}
}

func (s *AuthService) Register(db *database.Database, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := s.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	if count > 0 {
		tx.Rollback()
		return models.User{}, ErrResourceExists
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := createEvent(tx, broker.UserCreated, "user", "create", user.ID, map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	}); err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) Login(db *database.Database, email, password string) (string, error) {
	var user models.User
	if err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return token.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtExpiration)
}

// ValidateToken uses the token utility to validate tokens
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	return token.ValidateToken(tokenString, s.jwtSecret)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var AuthServiceInstance AuthServiceInterface
