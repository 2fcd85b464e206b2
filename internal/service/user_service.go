package service

import (
	"errors"
	"fmt"

	"aurora-messenger/backend/internal/models"
	"aurora-messenger/backend/pkg/cache"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExists = errors.New("user with this username already exists")
	// ErrInvalidCredentials covers both a wrong password and an unknown
	// username; callers must not be able to tell them apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles user-related operations
type UserService struct {
	db    *gorm.DB
	cache *cache.Cache // optional, caches search results
}

// NewUserService creates a new user service. cache may be nil.
func NewUserService(db *gorm.DB, c *cache.Cache) *UserService {
	return &UserService{db: db, cache: c}
}

// Register creates a new user. First writer wins: a second registration
// for the same username fails and leaves the stored record untouched.
func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	var existing models.User
	result := s.db.Where("username = ?", req.Username).First(&existing)
	if result.RowsAffected > 0 {
		return nil, ErrUserAlreadyExists
	}

	bio := req.Bio
	if bio == "" {
		bio = models.DefaultBio
	}

	user := models.User{
		Username: req.Username,
		Password: req.Password,
		Bio:      bio,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The unique index is the backstop for concurrent registrations
		// that both pass the existence check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return &user, nil
}

// Login authenticates a user by direct credential comparison.
func (s *UserService) Login(req *models.LoginRequest) (*models.User, error) {
	var user models.User
	result := s.db.Where("username = ?", req.Username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, result.Error
	}

	if user.Password != req.Password {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Search returns usernames containing the query as a substring, in store
// iteration order (by id). Matching is case-sensitive.
func (s *UserService) Search(query string) ([]string, error) {
	cacheKey := fmt.Sprintf("search:%s", query)
	if s.cache != nil {
		if v, ok := s.cache.Get(cacheKey); ok {
			return v.([]string), nil
		}
	}

	var usernames []string
	result := s.db.Model(&models.User{}).
		Where("username LIKE ?", "%"+query+"%").
		Order("id").
		Pluck("username", &usernames)
	if result.Error != nil {
		return nil, result.Error
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, usernames)
	}

	return usernames, nil
}

// GetByUsername retrieves a user by username
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	result := s.db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}
