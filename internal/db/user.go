package db

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role classifies what a user may do with content.
type Role string

const (
	RoleSubscriber Role = "subscriber"
	RoleWriter     Role = "writer"
	RoleEditor     Role = "editor"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSubscriber, RoleWriter, RoleEditor:
		return true
	}
	return false
}

// User is an account on the platform. Role drives write permissions;
// IsSuperuser and IsStaff are orthogonal flags mirroring the admin site
// semantics. TotalDonated is accumulated by the donation ledger.
type User struct {
	gorm.Model
	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	FirstName      string
	LastName       string
	Bio            string `gorm:"type:text"`
	ProfilePicture string
	Role           Role            `gorm:"size:20;default:subscriber"`
	IsStaff        bool            `gorm:"default:false"`
	IsSuperuser    bool            `gorm:"default:false"`
	TotalDonated   decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// RoleGroup mirrors a user's role into a group-membership row for external
// authorization integrations. A user holds at most one of the three role
// groups at a time; UserService.SetRole is the only writer.
type RoleGroup struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex:idx_role_groups_user_name"`
	Name   string `gorm:"size:20;uniqueIndex:idx_role_groups_user_name"`
}

// TableName pins the table name.
func (RoleGroup) TableName() string {
	return "role_groups"
}

// EnsureSuperuser creates a superuser account with the given credentials if
// the username is not taken. Empty credentials are a no-op.
func EnsureSuperuser(gdb *gorm.DB, username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	var existing User
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return gdb.Create(&User{
			Username:     trimmedUser,
			Email:        trimmedUser + "@localhost",
			PasswordHash: string(hashed),
			Role:         RoleEditor,
			IsStaff:      true,
			IsSuperuser:  true,
		}).Error
	}

	return nil
}
