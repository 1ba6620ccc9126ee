package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/sarathaj/User-Management/internal/domain/entities"
	"github.com/sarathaj/User-Management/internal/domain/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) repositories.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	fresh := entities.NewProfile(userID)
	model := toProfileModel(fresh)

	// Two concurrent first reads race on the primary key; the loser's insert
	// becomes a no-op and both read the same row back.
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&model).Error; err != nil {
		return nil, err
	}

	var stored ProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return mapToProfileEntity(&stored), nil
}

func (r *ProfileRepository) Save(ctx context.Context, profile *entities.Profile) (*entities.Profile, error) {
	model := toProfileModel(profile)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return nil, err
	}
	var stored ProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", profile.UserId).First(&stored).Error; err != nil {
		return nil, err
	}
	return mapToProfileEntity(&stored), nil
}

func toProfileModel(p *entities.Profile) ProfileModel {
	return ProfileModel{
		UserId:       p.UserId,
		FullName:     p.FullName,
		DateOfBirth:  p.DateOfBirth,
		Address:      p.Address,
		Gender:       p.Gender,
		MobileNumber: p.MobileNumber,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func mapToProfileEntity(m *ProfileModel) *entities.Profile {
	return &entities.Profile{
		UserId:       m.UserId,
		FullName:     m.FullName,
		DateOfBirth:  m.DateOfBirth,
		Address:      m.Address,
		Gender:       m.Gender,
		MobileNumber: m.MobileNumber,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
