package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"coursesite/internal/models"
	"coursesite/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
	)
}

// AdminBootstrap describes the initial administrator account created when the
// users table is empty. A zero value disables seeding.
type AdminBootstrap struct {
	Email    string
	Password string
	Name     string
}

// SeedData creates the bootstrap admin account on first start. Existing
// installations are left untouched.
func SeedData(db *gorm.DB, bootstrap AdminBootstrap) error {
	email := strings.ToLower(strings.TrimSpace(bootstrap.Email))
	if email == "" || bootstrap.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := crypto.HashPassword(bootstrap.Password)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	name := strings.TrimSpace(bootstrap.Name)
	if name == "" {
		name = "Administrator"
	}

	admin := models.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		Role:     models.RoleAdmin,
		Verified: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}

	return nil
}
