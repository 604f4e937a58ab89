package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cashbook/internal/auth"
)

// addUserCmd provisions an account from the command line. There is no
// self-service registration; accounts are created by whoever operates
// the instance.
var addUserCmd = &cobra.Command{
	Use:   "adduser <username> <password>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		username, password := args[0], args[1]

		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		var exists int64
		if err := db.Model(&auth.User{}).Where("username = ?", username).Count(&exists).Error; err != nil {
			log.Fatalf("failed to check existing user: %v", err)
		}
		if exists > 0 {
			log.Fatalf("user %q already exists", username)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Auth.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		user := &auth.User{
			ID:           uuid.NewString(),
			Username:     username,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}
		if err := db.Create(user).Error; err != nil {
			log.Fatalf("failed to create user: %v", err)
		}

		fmt.Printf("created user %s (%s)\n", username, user.ID)
	},
}
