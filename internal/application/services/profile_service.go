package services

import (
	"context"
	"errors"
	"log"
	"strconv"
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
)

const profileCacheTTL = 24 * time.Hour

var profileFieldLimits = map[string]int{
	"full_name":     255,
	"gender":        20,
	"mobile_number": 20,
}

type ProfileService struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	redisService *infrastructure.RedisService
}

func NewProfileService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	redisService *infrastructure.RedisService,
) interfaces.ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		redisService: redisService,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*common.ProfileResult, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// First, try to get the profile from Redis cache
	cached, err := s.redisService.GetProfile(ctx, userID.String())
	if err != nil {
		log.Printf("Failed to read cached profile: %v", err)
	}
	if cached != nil {
		return mapper.NewProfileResultFromEntity(user, cached), nil
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.redisService.SetProfile(ctx, userID.String(), profile, profileCacheTTL); err != nil {
		log.Printf("Failed to cache user profile: %v", err)
	}
	return mapper.NewProfileResultFromEntity(user, profile), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, cmd *command.UpdateProfileCommand) (*common.ProfileResult, error) {
	user, err := s.findUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	var errs apperrors.Collector
	var newEmail string
	switch {
	case cmd.Email == nil:
		if !cmd.Partial {
			errs.Add("email", msgRequired)
		}
	default:
		newEmail = entities.NormalizeEmail(*cmd.Email)
		if newEmail == "" {
			errs.Add("email", "This field may not be blank.")
		} else if !entities.ValidEmail(newEmail) {
			errs.Add("email", msgInvalidEmail)
		} else {
			taken, err := s.userRepo.EmailTaken(ctx, newEmail, user.Id)
			if err != nil {
				return nil, err
			}
			if taken {
				errs.Add("email", msgEmailExists)
			}
		}
	}

	fields := entities.ProfileFields{
		FullName:     trimmed(cmd.FullName),
		Address:      cmd.Address,
		Gender:       trimmed(cmd.Gender),
		MobileNumber: trimmed(cmd.MobileNumber),
	}
	checkLength(&errs, "full_name", fields.FullName)
	checkLength(&errs, "gender", fields.Gender)
	checkLength(&errs, "mobile_number", fields.MobileNumber)

	if cmd.DateOfBirth != nil {
		dob, err := parseDate(*cmd.DateOfBirth)
		if err != nil {
			errs.Add("date_of_birth", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		} else {
			fields.DateOfBirth = &dob
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, user.Id)
	if err != nil {
		return nil, err
	}

	if newEmail != "" && newEmail != user.Email {
		validatedUser, err := entities.NewValidatedUser(user)
		if err != nil {
			return nil, err
		}
		if err := validatedUser.ChangeEmail(newEmail); err != nil {
			return nil, apperrors.Validation("email", err.Error())
		}
		updated, err := s.userRepo.Update(ctx, validatedUser)
		if err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				return nil, apperrors.Validation("email", msgEmailExists)
			}
			return nil, err
		}
		user = updated
	}

	if cmd.Partial {
		profile.Apply(fields)
	} else {
		profile.Replace(fields)
	}
	saved, err := s.profileRepo.Save(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := s.redisService.DeleteProfile(ctx, user.Id.String()); err != nil {
		log.Printf("Failed to evict cached profile: %v", err)
	}
	return mapper.NewProfileResultFromEntity(user, saved), nil
}

func (s *ProfileService) findUser(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.FindById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound()
	}
	return user, nil
}

// parseDate accepts YYYY-MM-DD; the empty string clears the date.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(mapper.DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func checkLength(errs *apperrors.Collector, field string, v *string) {
	limit, ok := profileFieldLimits[field]
	if !ok || v == nil {
		return
	}
	if len([]rune(*v)) > limit {
		errs.Add(field, "Ensure this field has no more than "+strconv.Itoa(limit)+" characters.")
	}
}
