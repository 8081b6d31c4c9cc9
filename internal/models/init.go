package models

import (
	"strings"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminPassword = "admin12345"

// EnsureAdmin creates the bootstrap admin account when no admin exists yet.
func EnsureAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&User{}).Where("role = ?", constants.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "admin@elwarcha.ma"
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// promote an existing customer with the same email instead of failing on the unique index
	var existing User
	err = db.Where("email = ?", email).Limit(1).Find(&existing).Error
	if err != nil {
		return err
	}
	if existing.ID != 0 {
		if err := db.Model(&existing).Update("role", constants.RoleAdmin).Error; err != nil {
			return err
		}
		logger.Warnw("bootstrap_admin_promoted", "email", email)
		return nil
	}

	admin := User{
		Email:        email,
		Name:         "Admin",
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	if password == defaultAdminPassword {
		logger.Warnw("bootstrap_admin_created_with_default_password", "email", email)
	} else {
		logger.Infow("bootstrap_admin_created", "email", email)
	}
	return nil
}
