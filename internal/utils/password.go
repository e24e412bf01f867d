package utils

import "golang.org/x/crypto/bcrypt"

// passwordSymbols is the fixed set of special characters accepted in
// passwords. Characters outside letters, digits and this set make a
// password invalid.
const passwordSymbols = "@$!%*?&"

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsPasswordComplexEnough reports whether the password is at least 8
// characters long and contains at least one lowercase letter, one uppercase
// letter, one digit and one symbol from the allowed set. Any character
// outside those classes disqualifies the password.
func IsPasswordComplexEnough(password string) bool {
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case containsRune(passwordSymbols, c):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

func containsRune(s string, c rune) bool {
	for _, r := range s {
		if r == c {
			return true
		}
	}
	return false
}
