// file: service/auth_service_test.go

package service

import (
	"database/sql"
	"go-notes-api/model"
	"go-notes-api/repository"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockUserRepo is a mock for repository.IUserRepository.
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// mockTokenRepo is a mock for repository.ITokenRepository.
type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) CreateTx(tx *sql.Tx, token *model.RefreshToken) error {
	args := m.Called(tx, token)
	return args.Error(0)
}
func (m *mockTokenRepo) DeleteByUserIDTx(tx *sql.Tx, userID string) error {
	args := m.Called(tx, userID)
	return args.Error(0)
}
func (m *mockTokenRepo) ConsumeByUserIDAndHash(tx *sql.Tx, userID, tokenHash string) (bool, error) {
	args := m.Called(tx, userID, tokenHash)
	return args.Bool(0), args.Error(1)
}

// fakeTokenStore is a stateful in-memory ITokenRepository. It keeps at
// most one live digest per user, which is exactly the invariant the
// rotation protocol maintains, and lets the chain tests exercise real
// consume semantics instead of scripted responses.
type fakeTokenStore struct {
	live map[string]string // userID -> live token hash
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{live: map[string]string{}}
}

func (f *fakeTokenStore) CreateTx(tx *sql.Tx, token *model.RefreshToken) error {
	f.live[token.UserID] = token.TokenHash
	return nil
}
func (f *fakeTokenStore) DeleteByUserIDTx(tx *sql.Tx, userID string) error {
	delete(f.live, userID)
	return nil
}
func (f *fakeTokenStore) ConsumeByUserIDAndHash(tx *sql.Tx, userID, tokenHash string) (bool, error) {
	if f.live[userID] != tokenHash {
		return false, nil
	}
	delete(f.live, userID)
	return true, nil
}

// TestAuthService_HashAndCheckPassword ensures that password hashing and
// verification work correctly.
func TestAuthService_HashAndCheckPassword(t *testing.T) {
	authService := NewAuthService(nil, nil, nil, nil)
	password := "MySecretPassword123!"

	hashedPassword, err := authService.HashPassword(password)
	assert.NoError(t, err)
	assert.NotEqual(t, password, hashedPassword)

	assert.True(t, authService.CheckPasswordHash(password, hashedPassword))
	assert.False(t, authService.CheckPasswordHash("notMyPassword", hashedPassword))
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockUsers.On("GetUserByEmail", "a@x.com").Return(nil, sql.ErrNoRows).Once()
		mockUsers.On("CreateUser", mock.AnythingOfType("*model.User")).Return(nil).Once()

		authService := NewAuthService(nil, mockUsers, nil, nil)
		err := authService.Register("a@x.com", "Abc12345!")

		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
	})

	t.Run("email already registered", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		existing := &model.User{ID: "user-1", Email: "a@x.com"}
		mockUsers.On("GetUserByEmail", "a@x.com").Return(existing, nil).Once()

		authService := NewAuthService(nil, mockUsers, nil, nil)
		err := authService.Register("a@x.com", "AnotherPass1!")

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockUsers.AssertNotCalled(t, "CreateUser")
	})

	t.Run("lost the insert race", func(t *testing.T) {
		// The fast-path lookup saw nothing, but a concurrent register
		// hit the unique constraint first.
		mockUsers := new(mockUserRepo)
		mockUsers.On("GetUserByEmail", "a@x.com").Return(nil, sql.ErrNoRows).Once()
		mockUsers.On("CreateUser", mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicateEmail).Once()

		authService := NewAuthService(nil, mockUsers, nil, nil)
		err := authService.Register("a@x.com", "Abc12345!")

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockUsers.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	tokens := newTestTokenService(true)

	hasher := NewAuthService(nil, nil, nil, nil)
	hashedPassword, err := hasher.HashPassword("Abc12345!")
	assert.NoError(t, err)

	user := &model.User{ID: "user-1", Email: "a@x.com", Password: hashedPassword}

	t.Run("success rotates stored token and returns a valid pair", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockUsers := new(mockUserRepo)
		mockUsers.On("GetUserByEmail", "a@x.com").Return(user, nil).Once()

		mockTokens := new(mockTokenRepo)
		var stored *model.RefreshToken
		mockTokens.On("DeleteByUserIDTx", mock.Anything, "user-1").Return(nil).Once()
		mockTokens.On("CreateTx", mock.Anything, mock.AnythingOfType("*model.RefreshToken")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*model.RefreshToken)
			}).Return(nil).Once()

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		authService := NewAuthService(db, mockUsers, mockTokens, tokens)
		pair, err := authService.Login("a@x.com", "Abc12345!")

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		accessClaims, err := tokens.Verify(pair.AccessToken, model.TokenTypeAccess)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", accessClaims.Subject)

		refreshClaims, err := tokens.Verify(pair.RefreshToken, model.TokenTypeRefresh)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", refreshClaims.Subject)

		// The store only ever sees the digest of the issued token.
		assert.Equal(t, "user-1", stored.UserID)
		assert.Equal(t, hashToken(pair.RefreshToken), stored.TokenHash)
		assert.NotContains(t, stored.TokenHash, pair.RefreshToken)
		assert.WithinDuration(t, time.Now().Add(time.Hour), stored.ExpiresAt, time.Minute)

		mockTokens.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockUsers.On("GetUserByEmail", "nobody@x.com").Return(nil, sql.ErrNoRows).Once()
		mockUsers.On("GetUserByEmail", "a@x.com").Return(user, nil).Once()

		authService := NewAuthService(nil, mockUsers, nil, tokens)

		_, errUnknown := authService.Login("nobody@x.com", "Abc12345!")
		_, errWrongPass := authService.Login("a@x.com", "WrongPass1!")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})
}

func TestAuthService_Refresh_InvalidTokens(t *testing.T) {
	tokens := newTestTokenService(true)

	t.Run("garbage token", func(t *testing.T) {
		authService := NewAuthService(nil, nil, nil, tokens)
		_, err := authService.Refresh("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		accessToken, err := tokens.GenerateAccessToken("user-1")
		assert.NoError(t, err)

		authService := NewAuthService(nil, nil, nil, tokens)
		_, err = authService.Refresh(accessToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		refreshToken, err := tokens.GenerateRefreshToken("ghost")
		assert.NoError(t, err)

		mockUsers := new(mockUserRepo)
		mockUsers.On("GetUserByID", "ghost").Return(nil, sql.ErrNoRows).Once()

		authService := NewAuthService(nil, mockUsers, nil, tokens)
		_, err = authService.Refresh(refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		mockUsers.AssertExpectations(t)
	})
}

// TestAuthService_RefreshRotation drives the whole rotation protocol
// against a stateful store: tokens are single use, chains of refreshes
// work, historical tokens stay dead, and a new login kills the chain.
func TestAuthService_RefreshRotation(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	dbMock.MatchExpectationsInOrder(false)
	for i := 0; i < 8; i++ {
		dbMock.ExpectBegin()
	}
	for i := 0; i < 5; i++ {
		dbMock.ExpectCommit()
	}
	for i := 0; i < 3; i++ {
		dbMock.ExpectRollback()
	}

	tokens := newTestTokenService(true)
	store := newFakeTokenStore()

	hasher := NewAuthService(nil, nil, nil, nil)
	hashedPassword, err := hasher.HashPassword("Abc12345!")
	assert.NoError(t, err)
	user := &model.User{ID: "user-1", Email: "a@x.com", Password: hashedPassword}

	mockUsers := new(mockUserRepo)
	mockUsers.On("GetUserByEmail", "a@x.com").Return(user, nil)
	mockUsers.On("GetUserByID", "user-1").Return(user, nil)

	authService := NewAuthService(db, mockUsers, store, tokens)

	// login -> rt1
	pair1, err := authService.Login("a@x.com", "Abc12345!")
	assert.NoError(t, err)

	// refresh(rt1) -> rt2
	pair2, err := authService.Refresh(pair1.RefreshToken)
	assert.NoError(t, err)
	assert.NotEqual(t, pair1.RefreshToken, pair2.RefreshToken)

	// rt1 was consumed; replaying it must fail even though rt2 is live.
	_, err = authService.Refresh(pair1.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenNotRecognized)

	// The chain continues with each newest token.
	pair3, err := authService.Refresh(pair2.RefreshToken)
	assert.NoError(t, err)
	pair4, err := authService.Refresh(pair3.RefreshToken)
	assert.NoError(t, err)

	// Any historical token stays dead.
	_, err = authService.Refresh(pair2.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenNotRecognized)

	// A second login supersedes the live refresh token from the chain.
	_, err = authService.Login("a@x.com", "Abc12345!")
	assert.NoError(t, err)
	_, err = authService.Refresh(pair4.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenNotRecognized)
}
