package entities

import (
	"strings"
	"unicode"
)

const MinPasswordLength = 8

// commonPasswords is a short list of passwords rejected outright.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "letmein1": {},
	"abc12345": {}, "trustno1": {}, "11111111": {}, "00000000": {}, "superman": {},
	"starwars": {}, "passw0rd": {}, "dragon123": {}, "monkey123": {}, "changeme": {},
}

// CheckPasswordStrength returns the list of policy violations for password.
// email, when not empty, is used for the similarity check.
func CheckPasswordStrength(password, email string) []string {
	var problems []string
	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if password != "" && isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if tooSimilar(password, email) {
		problems = append(problems, "The password is too similar to the email.")
	}
	return problems
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func tooSimilar(password, email string) bool {
	if email == "" || password == "" {
		return false
	}
	p := strings.ToLower(password)
	local := strings.ToLower(email)
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	if len(local) < 3 {
		return p == strings.ToLower(email)
	}
	return p == local || p == strings.ToLower(email) || strings.Contains(local, p)
}
