package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"neurochat/internal/config"
	"neurochat/internal/db"
	apperrors "neurochat/internal/errors"
	"neurochat/internal/logger"
	"neurochat/internal/repository"
	"neurochat/internal/service"
)

// SeedUser is one entry of the seed file.
type SeedUser struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

var source string

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo accounts",
	Long:  `Sign up every user listed in a JSON array. Existing emails are skipped.`,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&source, "source", "seed/users.json", "path or http(s) URL of a JSON array of users")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Configure(cfg.LogLevel, os.Stderr)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	users, err := loadUsers(source)
	if err != nil {
		return fmt.Errorf("load seed users from %s: %w", source, err)
	}
	logger.Info("Loaded seed users", "count", len(users))

	authService := service.NewAuthService(repository.NewUserRepository(gormDB), nil)
	created, skipped, err := seedUsers(cmd.Context(), authService, users)
	if err != nil {
		return err
	}
	logger.Info("Seed completed", "created", created, "skipped", skipped)
	return nil
}

// loadUsers reads a JSON array from a local file or an http(s) URL.
func loadUsers(source string) ([]SeedUser, error) {
	var r io.Reader
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 15 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch seed data: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var users []SeedUser
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// seedUsers signs up every user, skipping emails that already exist and
// entries with missing fields.
func seedUsers(ctx context.Context, svc service.AuthService, users []SeedUser) (created, skipped int, err error) {
	for _, u := range users {
		_, err := svc.Signup(ctx, service.SignupInput{
			FirstName: u.FirstName,
			Email:     u.Email,
			Password:  u.Password,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrEmailInUse),
			errors.Is(err, apperrors.ErrFirstNameRequired),
			errors.Is(err, apperrors.ErrEmailRequired),
			errors.Is(err, apperrors.ErrPasswordRequired):
			logger.Warn("Skipping seed user", "email", u.Email, "reason", err)
			skipped++
		default:
			return created, skipped, fmt.Errorf("seed %s: %w", u.Email, err)
		}
	}
	return created, skipped, nil
}
