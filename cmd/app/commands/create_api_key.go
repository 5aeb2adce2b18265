package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/portal/internal/auth/domain"
	authUsecase "github.com/allisson/portal/internal/auth/usecase"
)

// RunCreateAPIKey issues a new API key for an existing user.
// The plaintext key is printed once; only its hash is persisted. An optional
// TTL in days sets the key expiration.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAPIKey(
	ctx context.Context,
	apiKeyUseCase authUsecase.APIKeyUseCase,
	logger *slog.Logger,
	userID string,
	name string,
	ttlDays int,
	format string,
	io IOTuple,
) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %s (must be a valid UUID)", userID)
	}

	if ttlDays < 0 {
		return fmt.Errorf("ttl-days must be a positive number, got: %d", ttlDays)
	}

	logger.Info("creating new API key",
		slog.String("user_id", id.String()),
		slog.String("name", name),
	)

	input := &authDomain.CreateAPIKeyInput{Name: name}
	if ttlDays > 0 {
		expiresAt := time.Now().UTC().AddDate(0, 0, ttlDays)
		input.ExpiresAt = &expiresAt
	}

	output, err := apiKeyUseCase.Issue(ctx, id, input)
	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputAPIKeyJSON(output, io.Writer)
	} else {
		outputAPIKeyText(output, io.Writer)
	}

	logger.Info("API key created successfully",
		slog.String("api_key_id", output.APIKey.ID.String()),
		slog.String("user_id", id.String()),
		slog.String("name", name),
	)

	return nil
}

// outputAPIKeyText outputs the result in human-readable text format.
func outputAPIKeyText(output *authDomain.CreateAPIKeyOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nAPI key created successfully!")
	_, _ = fmt.Fprintf(writer, "Key ID: %s\n", output.APIKey.ID.String())
	_, _ = fmt.Fprintf(writer, "Key: %s\n", output.PlainKey)
	if output.APIKey.ExpiresAt != nil {
		_, _ = fmt.Fprintf(writer, "Expires at: %s\n", output.APIKey.ExpiresAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The key is shown only once. Store it securely.")
}

// outputAPIKeyJSON outputs the result in JSON format for machine consumption.
func outputAPIKeyJSON(output *authDomain.CreateAPIKeyOutput, writer io.Writer) {
	result := map[string]string{
		"api_key_id": output.APIKey.ID.String(),
		"key":        output.PlainKey,
	}
	if output.APIKey.ExpiresAt != nil {
		result["expires_at"] = output.APIKey.ExpiresAt.Format(time.RFC3339)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
