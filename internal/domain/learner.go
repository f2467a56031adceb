package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Learner validation errors
var (
	ErrEmptyLearnerAccountID = errors.New("learner ID cannot be empty")
	ErrInvalidEmail          = errors.New("invalid email format")
	ErrEmptyEmail            = errors.New("email cannot be empty")
	ErrEmptyDisplayName      = errors.New("display name cannot be empty")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong       = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword   = errors.New("hashed password cannot be empty")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Learner represents a registered learner profile. Accounts are created and
// managed by a guardian; the display name is what the child sees in the app.
type Learner struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	Password       string    `json:"-"` // Plaintext, held only during registration
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewLearner creates a new Learner with the given email, display name and
// password. It generates a new UUID and sets the timestamps. The caller is
// responsible for hashing the password before storing the learner.
func NewLearner(email, displayName, password string) (*Learner, error) {
	now := time.Now().UTC()
	learner := &Learner{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: displayName,
		Password:    password,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := learner.Validate(); err != nil {
		return nil, err
	}

	return learner, nil
}

// Validate checks if the Learner has valid data.
// Returns an error if any field fails validation.
func (l *Learner) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLearnerAccountID
	}

	if l.Email == "" {
		return ErrEmptyEmail
	}

	if !emailPattern.MatchString(l.Email) {
		return ErrInvalidEmail
	}

	if l.DisplayName == "" {
		return ErrEmptyDisplayName
	}

	if l.Password != "" {
		if len(l.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt truncates input beyond 72 bytes
		if len(l.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if l.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}
