package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"not null" json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	ProfilePicture string    `json:"profile_picture"`
	Bio            string    `gorm:"type:text" json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Service handles registration, login and profile updates.
type Service struct {
	db   *gorm.DB
	auth *config.AuthConfig
}

// NewService creates a user service.
func NewService(db *gorm.DB, auth *config.AuthConfig) *Service {
	return &Service{
		db:   db,
		auth: auth,
	}
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Register creates an account. Email addresses are unique.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.NewValidationError("email and password are required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).
		Where("LOWER(email) = LOWER(?)", req.Email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, common.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if u.Username == "" {
		u.Username = u.Email
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Login verifies credentials and issues a signed token. Wrong email and
// wrong password return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	var u User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := s.issueToken(&u)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

// GetByID loads a user profile.
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &u, nil
}

// List returns every registered account, oldest first. Used by the
// newsletter command to build the recipient list.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateRequest carries optional profile fields; nil means unchanged.
type UpdateRequest struct {
	Username       *string
	FirstName      *string
	LastName       *string
	ProfilePicture *string
	Bio            *string
}

// Update applies profile changes to the user's own account.
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.ProfilePicture != nil {
		u.ProfilePicture = *req.ProfilePicture
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

func (s *Service) issueToken(u *User) (string, error) {
	claims := jwt.MapClaims{
		"userId": u.ID,
		"email":  u.Email,
		"exp":    time.Now().Add(s.auth.TokenTTL).Unix(),
		"iat":    time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.auth.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
