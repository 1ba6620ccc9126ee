package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sarathaj/User-Management/internal/application/command"
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/domain/repositories"
	"github.com/sarathaj/User-Management/internal/infrastructure"
	"github.com/sarathaj/User-Management/internal/infrastructure/db/postgres"
	"github.com/sarathaj/User-Management/internal/infrastructure/storage"
	"github.com/stretchr/testify/require"
)

const testPassword = "Str0ngPass!"

type sentMail struct {
	Recipient string
	Subject   string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(ctx context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Recipient: recipient, Subject: subject})
	return nil
}

func (m *recordingMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type testEnv struct {
	auth      *UserService
	profiles  *ProfileService
	tasks     *TaskService
	users     repositories.UserRepository
	taskRepo  repositories.TaskRepository
	tokens    repositories.TokenRepository
	jwt       *infrastructure.JWTService
	files     *storage.FileStorage
	mailer    *recordingMailer
	publisher *recordingPublisher
}

type envOption func(*envConfig)

type envConfig struct {
	redis   *infrastructure.RedisService
	limiter *infrastructure.RateLimiter
}

func withRedis(r *infrastructure.RedisService) envOption {
	return func(c *envConfig) { c.redis = r }
}

func withLimiter(l *infrastructure.RateLimiter) envOption {
	return func(c *envConfig) { c.limiter = l }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := envConfig{
		redis:   infrastructure.NewRedisServiceWithClient(nil),
		limiter: infrastructure.NewRateLimiter(0, 0),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := postgres.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	files, err := storage.NewFileStorage(t.TempDir(), "/media/", 1<<20)
	require.NoError(t, err)

	env := &testEnv{
		users:     postgres.NewUserRepository(db),
		taskRepo:  postgres.NewTaskRepository(db),
		tokens:    postgres.NewTokenRepository(db),
		jwt:       infrastructure.NewJWTService("test-secret", 5*time.Minute, time.Hour),
		files:     files,
		mailer:    &recordingMailer{},
		publisher: &recordingPublisher{},
	}
	profileRepo := postgres.NewProfileRepository(db)

	env.auth = NewUserService(env.users, profileRepo, env.tokens, cfg.redis, env.jwt, cfg.limiter, env.mailer, env.publisher).(*UserService)
	env.profiles = NewProfileService(env.users, profileRepo, cfg.redis).(*ProfileService)
	env.tasks = NewTaskService(env.taskRepo, files, env.publisher).(*TaskService)
	return env
}

// register creates an account and returns the caller's identity.
func (e *testEnv) register(t *testing.T, email string) common.Identity {
	t.Helper()
	ctx := context.Background()
	_, err := e.auth.Register(ctx, &command.RegisterUserCommand{
		Email:           email,
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(t, err)

	login, err := e.auth.Login(ctx, &command.LoginUserCommand{Email: email, Password: testPassword})
	require.NoError(t, err)
	identity, err := e.auth.Authenticate(ctx, login.Access)
	require.NoError(t, err)
	return *identity
}
