package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/portal/internal/auth/domain"
)

func TestRunCreateAPIKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	userID := uuid.Must(uuid.NewV7())
	keyID := uuid.Must(uuid.NewV7())
	plainKey := "pk_test_1234567890abcdef"

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockAPIKeyUseCase{}
		output := &authDomain.CreateAPIKeyOutput{
			APIKey:   &authDomain.APIKey{ID: keyID, UserID: userID, Name: "ci"},
			PlainKey: plainKey,
		}

		mockUseCase.On("Issue", ctx, userID, &authDomain.CreateAPIKeyInput{Name: "ci"}).
			Return(output, nil)

		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunCreateAPIKey(ctx, mockUseCase, logger, userID.String(), "ci", 0, "text", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), keyID.String())
		require.Contains(t, out.String(), plainKey)
		require.Contains(t, out.String(), "shown only once")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output-with-ttl", func(t *testing.T) {
		mockUseCase := &mockAPIKeyUseCase{}
		expiresAt := time.Now().UTC().AddDate(0, 0, 30)
		output := &authDomain.CreateAPIKeyOutput{
			APIKey:   &authDomain.APIKey{ID: keyID, UserID: userID, Name: "ci", ExpiresAt: &expiresAt},
			PlainKey: plainKey,
		}

		mockUseCase.On("Issue", ctx, userID, mock.MatchedBy(func(input *authDomain.CreateAPIKeyInput) bool {
			return input.Name == "ci" && input.ExpiresAt != nil
		})).Return(output, nil)

		var out bytes.Buffer
		io := IOTuple{Writer: &out}

		err := RunCreateAPIKey(ctx, mockUseCase, logger, userID.String(), "ci", 30, "json", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), plainKey)
		require.Contains(t, out.String(), `"expires_at"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-user-id", func(t *testing.T) {
		mockUseCase := &mockAPIKeyUseCase{}
		io := IOTuple{Writer: &bytes.Buffer{}}

		err := RunCreateAPIKey(ctx, mockUseCase, logger, "not-a-uuid", "ci", 0, "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid user ID")
		mockUseCase.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("negative-ttl", func(t *testing.T) {
		mockUseCase := &mockAPIKeyUseCase{}
		io := IOTuple{Writer: &bytes.Buffer{}}

		err := RunCreateAPIKey(ctx, mockUseCase, logger, userID.String(), "ci", -1, "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "ttl-days must be a positive number")
	})
}
