package service

// IsValidPhone reports whether a string looks like an E.164 phone number:
// a leading '+', digits only after it, at least 10 characters in total.
func IsValidPhone(phone string) bool {
	if len(phone) < 10 || phone[0] != '+' {
		return false
	}
	for _, c := range phone[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
