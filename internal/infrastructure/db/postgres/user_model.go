package postgres

import (
	"time"

	"github.com/google/uuid"
)

type UserModel struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string `gorm:"size:254;uniqueIndex;not null"`
	Email     string `gorm:"size:254;uniqueIndex;not null"`
	Password  string `gorm:"size:128;not null"`
	IsActive  bool   `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type ProfileModel struct {
	UserId       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName     string     `gorm:"size:255"`
	DateOfBirth  *time.Time `gorm:"type:date"`
	Address      string     `gorm:"type:text"`
	Gender       string     `gorm:"size:20"`
	MobileNumber string     `gorm:"size:20"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProfileModel) TableName() string {
	return "user_profiles"
}

type TaskModel struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null"`
	Attachment  string    `gorm:"size:255"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (TaskModel) TableName() string {
	return "tasks"
}

type OutstandingTokenModel struct {
	JTI       string    `gorm:"column:jti;size:64;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (OutstandingTokenModel) TableName() string {
	return "outstanding_tokens"
}

type BlacklistedTokenModel struct {
	JTI           string    `gorm:"column:jti;size:64;primaryKey"`
	UserId        uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt     time.Time `gorm:"not null"`
	BlacklistedAt time.Time `gorm:"autoCreateTime"`
}

func (BlacklistedTokenModel) TableName() string {
	return "blacklisted_tokens"
}

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&UserModel{},
		&ProfileModel{},
		&TaskModel{},
		&OutstandingTokenModel{},
		&BlacklistedTokenModel{},
	}
}
