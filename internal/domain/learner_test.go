package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLearner(t *testing.T) {
	t.Parallel()

	t.Run("valid learner", func(t *testing.T) {
		t.Parallel()

		learner, err := NewLearner("parent@example.com", "Mia", "securepassword")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, learner.ID)
		assert.Equal(t, "parent@example.com", learner.Email)
		assert.Equal(t, "Mia", learner.DisplayName)
		assert.False(t, learner.CreatedAt.IsZero())
	})

	tests := []struct {
		name        string
		email       string
		displayName string
		password    string
		wantErr     error
	}{
		{"empty email", "", "Mia", "securepassword", ErrEmptyEmail},
		{"malformed email", "not-an-email", "Mia", "securepassword", ErrInvalidEmail},
		{"empty display name", "parent@example.com", "", "securepassword", ErrEmptyDisplayName},
		{"short password", "parent@example.com", "Mia", "short", ErrPasswordTooShort},
		{"password beyond bcrypt limit", "parent@example.com", "Mia", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLearner(tt.email, tt.displayName, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLearnerValidateStoredForm(t *testing.T) {
	t.Parallel()

	// A learner loaded from the database has a hash but no plaintext.
	learner := Learner{
		ID:             uuid.New(),
		Email:          "parent@example.com",
		DisplayName:    "Mia",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	assert.NoError(t, learner.Validate())

	learner.HashedPassword = ""
	assert.ErrorIs(t, learner.Validate(), ErrEmptyHashedPassword)
}
