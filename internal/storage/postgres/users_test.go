package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/sarmini1/messagely/internal/models"
	"github.com/sarmini1/messagely/internal/storage"
)

var userColumns = []string{
	"username", "password_hash", "first_name", "last_name", "phone", "joined_at", "last_login_at",
}

type UserStoreTestSuite struct {
	suite.Suite
	mock  pgxmock.PgxPoolIface
	store *Store
	ctx   context.Context
}

func (s *UserStoreTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.store = NewStoreWithDB(mock)
	s.ctx = context.Background()
}

func (s *UserStoreTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestUserStoreTestSuite(t *testing.T) {
	suite.Run(t, new(UserStoreTestSuite))
}

func (s *UserStoreTestSuite) TestCreateUser_Success() {
	joined := time.Now()
	s.mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO users (username, password_hash, first_name, last_name, phone)`)).
		WithArgs("alice", "$2a$digest", "Alice", "A", "555-0001").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("alice", "$2a$digest", "Alice", "A", "555-0001", joined, nil))

	created, err := s.store.CreateUser(s.ctx, models.User{
		Username:     "alice",
		PasswordHash: "$2a$digest",
		FirstName:    "Alice",
		LastName:     "A",
		Phone:        "555-0001",
	})
	s.Require().NoError(err)
	s.Equal("alice", created.Username)
	s.Equal(joined, created.JoinedAt)
	s.Nil(created.LastLoginAt)
}

func (s *UserStoreTestSuite) TestCreateUser_DuplicateUsername() {
	s.mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO users (username, password_hash, first_name, last_name, phone)`)).
		WithArgs("alice", "$2a$digest", "Alice", "A", "555-0001").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})

	_, err := s.store.CreateUser(s.ctx, models.User{
		Username:     "alice",
		PasswordHash: "$2a$digest",
		FirstName:    "Alice",
		LastName:     "A",
		Phone:        "555-0001",
	})
	s.ErrorIs(err, storage.ErrAlreadyExists)
}

func (s *UserStoreTestSuite) TestGetUser_Success() {
	joined := time.Now().Add(-time.Hour)
	lastLogin := time.Now()
	s.mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT username, password_hash, first_name, last_name, phone, joined_at, last_login_at`)).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("alice", "$2a$digest", "Alice", "A", "555-0001", joined, &lastLogin))

	user, err := s.store.GetUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("Alice", user.FirstName)
	s.Equal("555-0001", user.Phone)
	s.Require().NotNil(user.LastLoginAt)
	s.Equal(lastLogin, *user.LastLoginAt)
}

func (s *UserStoreTestSuite) TestGetUser_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT username, password_hash, first_name, last_name, phone, joined_at, last_login_at`)).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.store.GetUser(s.ctx, "nobody")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *UserStoreTestSuite) TestListUsers_ImposesOrder() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY username ASC`)).
		WillReturnRows(pgxmock.NewRows([]string{"username", "first_name", "last_name"}).
			AddRow("alice", "Alice", "A").
			AddRow("bob", "Bob", "B"))

	list, err := s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("alice", list[0].Username)
	s.Equal("bob", list[1].Username)
}

func (s *UserStoreTestSuite) TestListUsers_Empty() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY username ASC`)).
		WillReturnRows(pgxmock.NewRows([]string{"username", "first_name", "last_name"}))

	list, err := s.store.ListUsers(s.ctx)
	s.Require().NoError(err)
	assert.Empty(s.T(), list)
	assert.NotNil(s.T(), list)
}

func (s *UserStoreTestSuite) TestTouchLastLogin_Success() {
	s.mock.ExpectExec(regexp.QuoteMeta(`SET last_login_at = NOW()`)).
		WithArgs("alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	s.NoError(s.store.TouchLastLogin(s.ctx, "alice"))
}

func (s *UserStoreTestSuite) TestTouchLastLogin_UnknownUser() {
	s.mock.ExpectExec(regexp.QuoteMeta(`SET last_login_at = NOW()`)).
		WithArgs("nobody").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.store.TouchLastLogin(s.ctx, "nobody")
	s.ErrorIs(err, storage.ErrNotFound)
}
