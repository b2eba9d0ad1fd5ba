package integration

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	verimail "gitlab.com/verimail/verimail-backend"
	"gitlab.com/verimail/verimail-backend/pkg/env"
	postgrespkg "gitlab.com/verimail/verimail-backend/pkg/postgres"
)

type TestSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	pgPool      *pgxpool.Pool
	app         *App
	routerStop  context.CancelFunc
}

func (s *TestSuite) SetupSuite() {
	ctx := context.Background()

	env.SetMode(env.Test)

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("verimail_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	s.Require().NoError(err)
	s.pgContainer = pgContainer

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pgPool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	migrateDSN := strings.Replace(connStr, "postgres://", "pgx://", 1)
	err = postgrespkg.Migrate(migrateDSN, &verimail.Migrations)
	s.Require().NoError(err)

	routerCtx, cancel := context.WithCancel(ctx)
	s.routerStop = cancel

	s.app, err = NewApp(routerCtx, s.pgPool)
	s.Require().NoError(err)
}

func (s *TestSuite) TearDownSuite() {
	if s.routerStop != nil {
		s.routerStop()
	}

	if s.pgPool != nil {
		s.pgPool.Close()
	}

	if s.pgContainer != nil {
		err := s.pgContainer.Terminate(context.Background())
		s.Require().NoError(err)
	}
}

func (s *TestSuite) AfterTest(suiteName, testName string) {
	_, err := s.pgPool.Exec(context.Background(),
		"TRUNCATE TABLE users, email_addresses, email_confirmations RESTART IDENTITY CASCADE")
	s.Require().NoError(err)

	if s.app.MockMailSender != nil {
		s.app.MockMailSender.Reset()
	}
}

func (s *TestSuite) App() *App {
	return s.app
}

// SeedUser inserts a bare user row so email addresses have something to
// reference.
func (s *TestSuite) SeedUser(username string) uuid.UUID {
	id := uuid.New()
	_, err := s.pgPool.Exec(context.Background(),
		`INSERT INTO users (id, username, email) VALUES ($1, $2, '')`,
		id, username)
	s.Require().NoError(err)
	return id
}

func (s *TestSuite) UserEmail(userID uuid.UUID) string {
	var email string
	err := s.pgPool.QueryRow(context.Background(),
		`SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	s.Require().NoError(err)
	return email
}

func (s *TestSuite) Username(userID uuid.UUID) string {
	var username string
	err := s.pgPool.QueryRow(context.Background(),
		`SELECT username FROM users WHERE id = $1`, userID).Scan(&username)
	s.Require().NoError(err)
	return username
}

// WaitForConfirmationKey polls the dev key query until the outbox handler has
// issued a confirmation for the address.
func (s *TestSuite) WaitForConfirmationKey(userID uuid.UUID, email string) string {
	var key string
	s.Require().Eventually(func() bool {
		k, err := s.app.ConfirmationApp.Query.GetKey.Handle(context.Background(), userID, email)
		if err != nil {
			return false
		}
		key = k
		return true
	}, 10*time.Second, 50*time.Millisecond, "confirmation key never appeared for %s", email)
	return key
}

func (s *TestSuite) WaitForMail(email string) {
	s.Require().Eventually(func() bool {
		for _, m := range s.app.MockMailSender.GetSentMails() {
			if m.To == email {
				return true
			}
		}
		return false
	}, 10*time.Second, 50*time.Millisecond, "confirmation mail never arrived for %s", email)
}
