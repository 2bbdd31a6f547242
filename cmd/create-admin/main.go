package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/auth"
	"github.com/retroshelf/retroshelf/internal/config"
	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/models"
)

// Creates (or promotes) an administrator account. Run once after deploying:
//
//	create-admin -username admin -email admin@example.com -password <pw>
func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 8 characters)")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := database.Initialize(cfg.Database, cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	db := database.GetDB()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var user models.User
	err = db.Where("email = ?", strings.ToLower(*email)).First(&user).Error
	switch {
	case err == nil:
		// Existing account: promote and reset credentials.
		user.Username = *username
		user.PasswordHash = hash
		user.IsAdmin = true
		if err := db.Save(&user).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to update user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("promoted existing user %q to admin\n", user.Username)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username:     *username,
			Email:        strings.ToLower(*email),
			PasswordHash: hash,
			IsAdmin:      true,
		}
		if err := db.Create(&user).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created admin user %q\n", user.Username)
	default:
		fmt.Fprintf(os.Stderr, "failed to look up user: %v\n", err)
		os.Exit(1)
	}
}
