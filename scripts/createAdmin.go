package main

import (
	"flag"
	"learnhub/config"
	authController "learnhub/controllers/auth"
	"learnhub/database"
	"learnhub/models"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	name := flag.String("name", "Admin", "admin display name")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 8 chars)")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("usage: createAdmin -email admin@example.com -password secret123 [-name Admin]")
	}

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		Name:            *name,
		Email:           strings.ToLower(strings.TrimSpace(*email)),
		Role:            models.RoleAdmin,
		Password:        string(hashedPassword),
		IsEmailVerified: true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return authController.SeedPermissions(tx, admin.Role, admin.ID)
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin %s created with id %d", admin.Email, admin.ID)
}
