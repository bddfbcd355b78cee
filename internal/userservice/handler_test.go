package userservice

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oluseyi-dev/chapterpress/internal/common"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := m.Called(ctx, msg, key, exchange)
	return args.Error(0)
}

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, *mockProducer) {
	t.Helper()

	db := common.TestDB("file://../../migrations", t)
	producer := new(mockProducer)
	producer.On("Publish", mock.Anything, mock.Anything, common.UserRegisteredKey, common.UserExchange).Return(nil)

	tokens := NewTokenManager("test-secret-32-bytes-long-enough")

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM users")
	})

	return NewUserService(db, producer, tokens), db, producer
}

func TestRegister(t *testing.T) {
	s, _, producer := setupTestEnvironment(t)
	ctx := context.Background()

	testCases := []struct {
		name        string
		email       string
		firstName   string
		lastName    string
		password    string
		expectedErr error
	}{
		{
			name:      "valid registration",
			email:     "jane@example.com",
			firstName: "Jane",
			lastName:  "Doe",
			password:  "secret123",
		},
		{
			name:        "invalid email",
			email:       "not-an-email",
			firstName:   "Jane",
			lastName:    "Doe",
			password:    "secret123",
			expectedErr: common.ValidationError{Errors: map[string]string{"email": "must be a valid email address"}},
		},
		{
			name:        "short password",
			email:       "short@example.com",
			firstName:   "Jane",
			lastName:    "Doe",
			password:    "abc",
			expectedErr: common.ValidationError{Errors: map[string]string{"password": "must be between 6 and 30 characters long and contain only letters, numbers, @ and #"}},
		},
		{
			name:        "duplicate email",
			email:       "jane@example.com",
			firstName:   "Jane",
			lastName:    "Again",
			password:    "secret123",
			expectedErr: ErrDuplicateEmail,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := s.Register(ctx, tc.email, tc.firstName, tc.lastName, tc.password)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.Equal(t, RoleUser, user.Role)
			assert.False(t, user.CreatedAt.IsZero())
		})
	}

	producer.AssertCalled(t, "Publish", mock.Anything, mock.Anything, common.UserRegisteredKey, common.UserExchange)
}

func TestLogin(t *testing.T) {
	s, _, _ := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "login@example.com", "Log", "In", "secret123")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, user, err := s.Login(ctx, "login@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "login@example.com", user.Email)

		claims, err := s.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "Log", claims.FirstName)
		assert.Equal(t, "In", claims.LastName)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := s.Login(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrAuthenticationFailure)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.Login(ctx, "login@example.com", "wrongpass")
		assert.ErrorIs(t, err, ErrAuthenticationFailure)
	})
}
