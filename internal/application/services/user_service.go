package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/apperrors"
	"github.com/sarathaj/User-Management/internal/application/command"
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/application/interfaces"
	"github.com/sarathaj/User-Management/internal/application/mapper"
	"github.com/sarathaj/User-Management/internal/domain/entities"
	"github.com/sarathaj/User-Management/internal/domain/repositories"
	"github.com/sarathaj/User-Management/internal/infrastructure"
	"github.com/sarathaj/User-Management/internal/messaging"
)

const (
	msgRequired      = "This field is required."
	msgInvalidEmail  = "Enter a valid email address."
	msgEmailExists   = "A user with this email already exists."
	msgPasswordMatch = "Passwords don't match"
	msgInvalidToken  = "Invalid token"
	mailTimeout      = 10 * time.Second
)

// dummyHash is compared against when the email is unknown so that a failed
// login costs the same whether or not the account exists.
var dummyHash = func() *entities.User {
	u := &entities.User{Password: "not-a-real-password"}
	_ = u.HashPassword()
	return u
}()

type UserService struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	tokenRepo    repositories.TokenRepository
	redisService *infrastructure.RedisService
	jwtService   *infrastructure.JWTService
	rateLimiter  *infrastructure.RateLimiter
	mailer       infrastructure.Mailer
	publisher    messaging.Publisher
	now          func() time.Time
}

func NewUserService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	tokenRepo repositories.TokenRepository,
	redisService *infrastructure.RedisService,
	jwtService *infrastructure.JWTService,
	rateLimiter *infrastructure.RateLimiter,
	mailer infrastructure.Mailer,
	publisher messaging.Publisher,
) interfaces.AuthService {
	return &UserService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		tokenRepo:    tokenRepo,
		redisService: redisService,
		jwtService:   jwtService,
		rateLimiter:  rateLimiter,
		mailer:       mailer,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, cmd *command.RegisterUserCommand) (*command.RegisterUserCommandResult, error) {
	email := entities.NormalizeEmail(cmd.Email)

	var errs apperrors.Collector
	switch {
	case email == "":
		errs.Add("email", msgRequired)
	case !entities.ValidEmail(email):
		errs.Add("email", msgInvalidEmail)
	default:
		taken, err := s.userRepo.EmailTaken(ctx, email, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", msgEmailExists)
		}
	}

	if cmd.Password == "" {
		errs.Add("password", msgRequired)
	} else {
		for _, problem := range entities.CheckPasswordStrength(cmd.Password, email) {
			errs.Add("password", problem)
		}
	}
	if cmd.PasswordConfirm == "" {
		errs.Add("password_confirm", msgRequired)
	} else if cmd.Password != cmd.PasswordConfirm {
		errs.Add("password_confirm", msgPasswordMatch)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	newUser := entities.NewUser(email, cmd.Password)
	validatedUser, err := entities.NewValidatedUser(newUser)
	if err != nil {
		return nil, apperrors.Validation(apperrors.NonFieldErrors, err.Error())
	}
	if err := validatedUser.HashPassword(); err != nil {
		return nil, err
	}

	createdUser, err := s.userRepo.Create(ctx, validatedUser)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, apperrors.Validation("email", msgEmailExists)
		}
		return nil, err
	}

	if fullName := strings.TrimSpace(cmd.FullName); fullName != "" {
		profile, err := s.profileRepo.GetOrCreate(ctx, createdUser.Id)
		if err != nil {
			return nil, err
		}
		profile.Apply(entities.ProfileFields{FullName: &fullName})
		if _, err := s.profileRepo.Save(ctx, profile); err != nil {
			return nil, err
		}
	}

	s.sendMail(createdUser.Email, "Welcome to UserHub", "Your account has been created. You can now sign in with "+createdUser.Email+".")
	publishEvent(ctx, s.publisher, messaging.EventUserRegistered, map[string]any{
		"user_id": createdUser.Id,
		"email":   createdUser.Email,
	})

	return &command.RegisterUserCommandResult{
		Message: "User registered successfully",
		User:    mapper.NewUserResultFromEntity(createdUser),
	}, nil
}

func (s *UserService) Login(ctx context.Context, cmd *command.LoginUserCommand) (*command.LoginUserCommandResult, error) {
	email := strings.TrimSpace(cmd.Email)

	var errs apperrors.Collector
	if email == "" {
		errs.Add("email", msgRequired)
	}
	if cmd.Password == "" {
		errs.Add("password", msgRequired)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if !s.rateLimiter.Allow(email) {
		return nil, apperrors.TooManyRequests("Too many login attempts, please try again later.")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = dummyHash.CheckPassword(cmd.Password)
		return nil, apperrors.InvalidCredentials()
	}
	if err := user.CheckPassword(cmd.Password); err != nil {
		return nil, apperrors.InvalidCredentials()
	}
	if !user.IsActive {
		return nil, apperrors.InvalidCredentials()
	}

	pair, refreshClaims, err := s.jwtService.GeneratePair(user.Id)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.SaveOutstanding(ctx, &entities.OutstandingToken{
		JTI:       refreshClaims.JTI,
		UserId:    user.Id,
		ExpiresAt: refreshClaims.ExpiresAt,
		CreatedAt: refreshClaims.IssuedAt,
	}); err != nil {
		return nil, err
	}

	return &command.LoginUserCommandResult{
		Refresh: pair.Refresh,
		Access:  pair.Access,
		User:    mapper.NewUserResultFromEntity(user),
	}, nil
}

func (s *UserService) Refresh(ctx context.Context, cmd *command.RefreshTokenCommand) (*command.RefreshTokenCommandResult, error) {
	if strings.TrimSpace(cmd.Refresh) == "" {
		return nil, apperrors.Validation("refresh", msgRequired)
	}

	claims, err := s.jwtService.ParseToken(cmd.Refresh, entities.RefreshToken)
	if err != nil {
		return nil, apperrors.UnauthorizedCause("Token is invalid or expired", err)
	}

	blacklisted, err := s.isBlacklisted(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, apperrors.Unauthorized("Token is blacklisted")
	}

	user, err := s.userRepo.FindById(ctx, claims.UserId)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.Unauthorized("User not found or inactive")
	}

	access, _, err := s.jwtService.GenerateToken(user.Id, entities.AccessToken)
	if err != nil {
		return nil, err
	}
	return &command.RefreshTokenCommandResult{Access: access}, nil
}

func (s *UserService) Logout(ctx context.Context, cmd *command.LogoutCommand) error {
	if strings.TrimSpace(cmd.Refresh) == "" {
		return apperrors.BadRequest(msgInvalidToken)
	}
	claims, err := s.jwtService.ParseToken(cmd.Refresh, entities.RefreshToken)
	if err != nil {
		return apperrors.BadRequest(msgInvalidToken)
	}
	if claims.UserId != cmd.UserID {
		return apperrors.BadRequest(msgInvalidToken)
	}

	if err := s.tokenRepo.Blacklist(ctx, &entities.OutstandingToken{
		JTI:       claims.JTI,
		UserId:    claims.UserId,
		ExpiresAt: claims.ExpiresAt,
	}); err != nil {
		return err
	}

	// The database row is authoritative; the cache only speeds up Refresh.
	if err := s.redisService.BlacklistToken(ctx, claims.JTI, claims.ExpiresAt.Sub(s.now())); err != nil {
		log.Printf("Failed to cache blacklisted token: %v", err)
	}
	return nil
}

func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*common.Identity, error) {
	claims, err := s.jwtService.ParseToken(accessToken, entities.AccessToken)
	if err != nil {
		return nil, apperrors.UnauthorizedCause("Given token not valid for any token type", err)
	}
	user, err := s.userRepo.FindById(ctx, claims.UserId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthorized("User not found")
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("User is inactive")
	}
	return mapper.NewIdentityFromEntity(user), nil
}

func (s *UserService) ResetPassword(ctx context.Context, cmd *command.ResetPasswordCommand) error {
	user, err := s.userRepo.FindById(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.Unauthorized("User not found")
	}

	var errs apperrors.Collector
	if cmd.OldPassword == "" {
		errs.Add("old_password", msgRequired)
	} else if err := user.CheckPassword(cmd.OldPassword); err != nil {
		errs.Add("old_password", "Invalid old password")
	}
	if cmd.NewPassword == "" {
		errs.Add("new_password", msgRequired)
	} else {
		for _, problem := range entities.CheckPasswordStrength(cmd.NewPassword, user.Email) {
			errs.Add("new_password", problem)
		}
	}
	if cmd.NewPasswordConfirm == "" {
		errs.Add("new_password_confirm", msgRequired)
	} else if cmd.NewPassword != cmd.NewPasswordConfirm {
		errs.Add("new_password_confirm", "New passwords don't match")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	if err := user.SetPassword(cmd.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.Id, user.Password); err != nil {
		return err
	}

	// Issued tokens stay valid; clients that want to end other sessions must
	// log them out explicitly.
	s.sendMail(user.Email, "Your UserHub password was changed", "The password of your account was just changed. If this was not you, contact support.")
	return nil
}

func (s *UserService) isBlacklisted(ctx context.Context, jti string) (bool, error) {
	hit, err := s.redisService.IsTokenBlacklisted(ctx, jti)
	if err != nil {
		log.Printf("Redis blacklist lookup failed, using database: %v", err)
	} else if hit {
		return true, nil
	}
	return s.tokenRepo.IsBlacklisted(ctx, jti)
}

func (s *UserService) sendMail(recipient, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.mailer.Send(ctx, recipient, subject, body); err != nil {
			log.Printf("Failed to send %q email: %v", subject, err)
		}
	}()
}

