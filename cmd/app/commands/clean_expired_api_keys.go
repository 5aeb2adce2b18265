package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	authUsecase "github.com/allisson/portal/internal/auth/usecase"
)

// RunCleanExpiredAPIKeys deletes API keys that expired more than the specified
// number of days ago. Supports dry-run mode to preview the deletion count and
// both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredAPIKeys(
	ctx context.Context,
	apiKeyUseCase authUsecase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning expired API keys",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := apiKeyUseCase.CleanExpired(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean expired API keys: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCleanJSON(writer, count, days, dryRun)
	} else {
		outputCleanText(writer, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanText outputs the result in human-readable text format.
func outputCleanText(writer io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d API key(s) expired more than %d day(s) ago\n", count, days)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d API key(s) expired more than %d day(s) ago\n", count, days)
	}
}

// outputCleanJSON outputs the result in JSON format for machine consumption.
func outputCleanJSON(writer io.Writer, count int64, days int, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
