package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/application/command"
	"github.com/sarathaj/User-Management/internal/application/common"
)

type AuthService interface {
	Register(ctx context.Context, cmd *command.RegisterUserCommand) (*command.RegisterUserCommandResult, error)
	Login(ctx context.Context, cmd *command.LoginUserCommand) (*command.LoginUserCommandResult, error)
	Refresh(ctx context.Context, cmd *command.RefreshTokenCommand) (*command.RefreshTokenCommandResult, error)
	Logout(ctx context.Context, cmd *command.LogoutCommand) error
	// Authenticate resolves a bearer access token to an active user.
	Authenticate(ctx context.Context, accessToken string) (*common.Identity, error)
	ResetPassword(ctx context.Context, cmd *command.ResetPasswordCommand) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*common.ProfileResult, error)
	UpdateProfile(ctx context.Context, cmd *command.UpdateProfileCommand) (*common.ProfileResult, error)
}
