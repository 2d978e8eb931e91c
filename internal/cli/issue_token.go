package cli

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/terraincognita07/vitalcheck/internal/db"
	"github.com/terraincognita07/vitalcheck/internal/security"
	"go.uber.org/zap"
)

type IssueTokenOptions struct {
	DBPath    string
	SecretKey string
	TTL       time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

// RunIssueTokenCommand makes sure a user exists for email and prints a signed API token.
func RunIssueTokenCommand(options IssueTokenOptions, email string, out io.Writer) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	issuer, err := security.NewTokenIssuer(options.SecretKey, options.TTL)
	if err != nil {
		return fmt.Errorf("token issuer init failed: %w", err)
	}

	database, err := db.OpenSQLite(options.DBPath, options.Logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	now := time.Now
	if options.Now != nil {
		now = options.Now
	}

	user, created, err := db.NewUserRepository(database).FindOrCreateByEmail(normalizedEmail, now())
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	token, err := issuer.Issue(user.ID, now())
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(out, "Created user %s (id %d)\n", user.Email, user.ID)
	}
	fmt.Fprintf(out, "Token for %s:\n%s\n", user.Email, token)
	return nil
}
