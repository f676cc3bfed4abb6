package service

import (
	"errors"
	"strings"

	"github.com/rubenatello/dignov2/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("unknown role")
)

// UserService wraps account operations.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Authenticate verifies credentials and returns the account.
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns every account, for the admin surface.
func (s *UserService) List() ([]db.User, error) {
	var users []db.User
	if err := s.db.Order("username asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetRole updates a user's role and its mirrored role-group membership in
// one transaction. The invariant it maintains: a user belongs to exactly the
// one role group matching their stored role.
func (s *UserService) SetRole(userID uint, role db.Role) (*db.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("role", role).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().
			Where("user_id = ?", user.ID).
			Delete(&db.RoleGroup{}).Error; err != nil {
			return err
		}

		return tx.Create(&db.RoleGroup{UserID: user.ID, Name: string(role)}).Error
	}); err != nil {
		return nil, err
	}

	user.Role = role
	return &user, nil
}
