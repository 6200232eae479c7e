package rules

const (
	PasswordMinLen  = 8
	PasswordMaxLen  = 20
	passwordSymbols = "@$!%*?&"
)

func isPasswordSymbol(r rune) bool {
	for _, s := range passwordSymbols {
		if r == s {
			return true
		}
	}
	return false
}

// ValidatePassword enforces the account password policy.
func ValidatePassword(pw string) error {
	n := len([]rune(pw))
	if n < PasswordMinLen || n > PasswordMaxLen {
		return ErrPasswordLength
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case isPasswordSymbol(r):
			symbol = true
		default:
			return ErrPasswordPolicy
		}
	}
	if !lower || !upper || !digit || !symbol {
		return ErrPasswordPolicy
	}
	return nil
}

// ValidatePasswordChange checks the confirmation before the policy.
func ValidatePasswordChange(pw, confirm string) error {
	if pw != confirm {
		return ErrPasswordMismatch
	}
	return ValidatePassword(pw)
}
