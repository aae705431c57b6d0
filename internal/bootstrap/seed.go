package bootstrap

import (
	"log"

	"github.com/campusgrid/studentportal/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Student{},
	)
}

// SeedDemoUsers creates one well-known account per role. Safe to run on
// every startup; existing accounts are left alone.
func SeedDemoUsers(db *gorm.DB) error {
	demoUsers := []struct {
		email string
		role  model.Role
		name  string
	}{
		{email: "student@example.com", role: model.RoleStudent, name: "Demo Student"},
		{email: "faculty@example.com", role: model.RoleFaculty, name: "Demo Faculty"},
	}

	for _, demo := range demoUsers {
		var count int64
		if err := db.Model(&model.User{}).
			Where("email = ?", demo.email).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := model.User{
			Email:        demo.email,
			PasswordHash: string(hashed),
			Role:         demo.role,
			Name:         demo.name,
		}

		if err := db.Create(&user).Error; err != nil {
			return err
		}

		log.Printf("Demo user %s created", demo.email)
	}

	return nil
}
