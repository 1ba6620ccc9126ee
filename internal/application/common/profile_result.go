package common

import "time"

type ProfileResult struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	DateOfBirth  *string   `json:"date_of_birth"`
	Address      string    `json:"address"`
	Gender       string    `json:"gender"`
	MobileNumber string    `json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
