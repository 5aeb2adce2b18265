package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	userDomain "github.com/allisson/portal/internal/user/domain"
	userUsecase "github.com/allisson/portal/internal/user/usecase"
)

// RunCreateUser creates a new user account.
// Outputs the user ID and email in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	logger *slog.Logger,
	name string,
	email string,
	password string,
	isStaff bool,
	isSuperuser bool,
	membership string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new user", slog.String("email", email))

	tier, err := parseMembership(membership)
	if err != nil {
		return err
	}

	input := &userUsecase.CreateUserInput{
		Name:        name,
		Email:       email,
		Password:    password,
		IsStaff:     isStaff,
		IsSuperuser: isSuperuser,
		Membership:  tier,
	}

	user, err := userUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputUserJSON(user, io.Writer)
	} else {
		outputUserText(user, io.Writer)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email),
		slog.Bool("is_staff", user.IsStaff),
		slog.Bool("is_superuser", user.IsSuperuser),
	)

	return nil
}

// outputUserText outputs the result in human-readable text format.
func outputUserText(user *userDomain.User, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", user.ID.String())
	_, _ = fmt.Fprintf(writer, "Email: %s\n", user.Email)
	if user.Membership != nil {
		_, _ = fmt.Fprintf(writer, "Membership: %s\n", *user.Membership)
	}
}

// outputUserJSON outputs the result in JSON format for machine consumption.
func outputUserJSON(user *userDomain.User, writer io.Writer) {
	result := map[string]string{
		"user_id": user.ID.String(),
		"email":   user.Email,
	}
	if user.Membership != nil {
		result["membership"] = string(*user.Membership)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
