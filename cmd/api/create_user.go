package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/rishangit/s-ams-sub002/internal/config"
	dbpkg "github.com/rishangit/s-ams-sub002/internal/db"
	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/logging"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

var createUserFlags struct {
	name      string
	email     string
	password  string
	role      string
	companyID uint
}

// createUserCmd bootstraps accounts; there is no registration endpoint.
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user that can log in to the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := createUserFlags

		role, err := domain.ParseRole(f.role)
		if err != nil {
			return fmt.Errorf("role %q: %w", f.role, err)
		}
		if len(f.password) < 6 {
			return fmt.Errorf("password must have at least 6 characters")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logging.New(cfg)

		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user := models.User{
			Name:         f.name,
			Email:        strings.ToLower(strings.TrimSpace(f.email)),
			PasswordHash: string(hashed),
			Role:         string(role),
		}
		if f.companyID != 0 {
			id := f.companyID
			user.CompanyID = &id
		}

		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"role":    user.Role,
		}).Info("user created")
		return nil
	},
}

func init() {
	fl := createUserCmd.Flags()
	fl.StringVar(&createUserFlags.name, "name", "", "display name")
	fl.StringVar(&createUserFlags.email, "email", "", "login email")
	fl.StringVar(&createUserFlags.password, "password", "", "login password")
	fl.StringVar(&createUserFlags.role, "role", string(domain.RoleUser), "admin, owner, staff or user")
	fl.UintVar(&createUserFlags.companyID, "company-id", 0, "company the user belongs to")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}
