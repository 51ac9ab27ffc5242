package auth

import (
	"regexp"
	"sort"
	"strings"

	"captioncraft/internal/domain/profile"
)

const (
	minPhoneLen       = 10
	minDescriptionLen = 20
	minPasswordLen    = 8
)

var (
	emailRe    = regexp.MustCompile(`\S+@\S+\.\S+`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,32}$`)
)

// ValidationError lists the offending fields. It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid input: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type validator struct {
	fields map[string]string
}

func (v *validator) add(field, msg string) {
	if v.fields == nil {
		v.fields = map[string]string{}
	}
	v.fields[field] = msg
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func validateProfile(in ProfileInput) *validator {
	v := &validator{}

	if !emailRe.MatchString(strings.TrimSpace(in.Email)) {
		v.add("email", "must be a valid email address")
	}
	if len(strings.TrimSpace(in.Phone)) < minPhoneLen {
		v.add("phone", "must be at least 10 characters")
	}
	if strings.TrimSpace(in.BusinessName) == "" {
		v.add("business_name", "is required")
	}
	bt := strings.TrimSpace(in.BusinessType)
	switch {
	case bt == "":
		v.add("business_type", "is required")
	case bt == profile.BusinessTypeOther && strings.TrimSpace(in.CustomBusinessType) == "":
		v.add("custom_business_type", "is required when business type is Other")
	}
	if len(strings.TrimSpace(in.BusinessDescription)) < minDescriptionLen {
		v.add("business_description", "must be at least 20 characters")
	}

	return v
}
