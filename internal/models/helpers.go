package models

// Deref returns the pointed-to string or "" when nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DerefOr returns the pointed-to string, or fallback when nil or empty.
func DerefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// Flag returns the pointed-to flag; absent flags are false.
func Flag(b *Bool) bool {
	return b != nil && bool(*b)
}
