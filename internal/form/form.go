// Package form holds uncommitted drafts for each record kind. Drafts validate
// one field at a time and never talk to the network.
package form

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

const (
	IncompleteMessage = "Please fill the required field"
	EndBeforeStart    = "End Date cannot be before Start Date!"
	LettersOnly       = "Only letters and spaces are allowed"
)

// Draft is the surface shared by every controller.
type Draft interface {
	SetField(name, value string) error
	IsSubmittable() bool
	Fields() []string
}

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z\s]*$`)
	idPattern   = regexp.MustCompile(`^\d*$`)

	validate = validator.New(validator.WithRequiredStructEnabled())
)

func complete(v any) bool {
	return validate.Struct(v) == nil
}

// LookupName trims a name typed to look a record up. An empty name is
// incomplete; anything but letters and spaces is refused as such.
func LookupName(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperror.Local(IncompleteMessage)
	}
	if !namePattern.MatchString(v) {
		return "", apperror.Local(LettersOnly)
	}
	return v, nil
}

func checkName(label, v string) (string, error) {
	if !namePattern.MatchString(v) {
		return "", apperror.Local("%s may contain letters and spaces only", label)
	}
	return v, nil
}

// ParseID validates a typed identifier. An empty value yields 0.
func ParseID(label, v string) (int64, error) {
	v = strings.TrimSpace(v)
	if !idPattern.MatchString(v) {
		return 0, apperror.Local("%s may contain digits only", label)
	}
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, apperror.Local("%s is out of range", label)
	}
	return id, nil
}

// checkDate accepts an empty value, which clears the field.
func checkDate(label, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v != "" && !domain.ValidDate(v) {
		return "", apperror.Local("%s must be a date in YYYY-MM-DD form", label)
	}
	return v, nil
}

func checkBool(label, v string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, apperror.Local("%s must be true or false", label)
	}
	return b, nil
}

func checkPercentage(v string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || p < 0 || p > 100 {
		return 0, apperror.Local("Percentage must be a whole number between 0 and 100")
	}
	return p, nil
}

func unknownField(name string) error {
	return apperror.Local("unknown field %q", name)
}

func readOnly(label string) error {
	return apperror.Local("%s is read-only", label)
}
