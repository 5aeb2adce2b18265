// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/portal/internal/app"
	userDomain "github.com/allisson/portal/internal/user/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseMembership converts a membership tier string to a MembershipTier.
// An empty string means no membership. Returns an error for unknown tiers.
func parseMembership(membership string) (*userDomain.MembershipTier, error) {
	membership = strings.TrimSpace(strings.ToLower(membership))
	if membership == "" {
		return nil, nil
	}

	tier := userDomain.MembershipTier(membership)
	if !tier.IsValid() {
		return nil, fmt.Errorf(
			"invalid membership tier: %s (valid options: basic, supporting, sponsor, managing, contributing, fellow)",
			membership,
		)
	}

	return &tier, nil
}
