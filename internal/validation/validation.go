// Package validation holds the school and contact rules shared by the API
// service and the client form. Every function here is pure.
package validation

import (
	"errors"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

const (
	// MaxImageBytes is the largest accepted image upload (5 MiB).
	MaxImageBytes int64 = 5 * 1024 * 1024

	contactPattern = `^[6-9][0-9]{9}$`
	emailPattern   = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
)

// Rule messages. Clients and server report exactly these strings.
const (
	MsgName         = "School name must be at least 2 characters"
	MsgAddress      = "Address must be at least 10 characters"
	MsgCity         = "City must be at least 2 characters"
	MsgState        = "State must be at least 2 characters"
	MsgContact      = "Contact must be a valid 10-digit Indian mobile number"
	MsgEmail        = "Please provide a valid email address"
	MsgImageMissing = "Please upload a school image"
	MsgImageType    = "Please upload a valid image file (JPEG, PNG, GIF)"
	MsgImageSize    = "Image size must be less than 5MB"
	MsgContactForm  = "All fields are required"
)

// AllowedImageTypes lists the accepted declared content types.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// SchoolInput is a candidate school record before persistence.
type SchoolInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Contact string `json:"contact"`
	EmailID string `json:"email_id"`
}

// Normalize returns a copy with every field trimmed.
func Normalize(in SchoolInput) SchoolInput {
	return SchoolInput{
		Name:    trim(in.Name),
		Address: trim(in.Address),
		City:    trim(in.City),
		State:   trim(in.State),
		Contact: trim(in.Contact),
		EmailID: trim(in.EmailID),
	}
}

// Violations is an ordered list of broken rules.
type Violations []string

// Error joins the messages into one human-readable sentence list.
func (v Violations) Error() string {
	return strings.Join(v, ". ")
}

// Err returns nil when there are no violations.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return &Error{Violations: v}
}

// Error is returned when a submission breaks one or more rules.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	return e.Violations.Error()
}

// IsValidationError reports whether err carries rule violations.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// ValidateSchool checks every field rule plus image presence and returns all
// violations in field order. Values are trimmed before checking.
func ValidateSchool(in SchoolInput, hasImage bool) Violations {
	in = Normalize(in)
	var out Violations

	if !minLen(in.Name, 2) {
		out = append(out, MsgName)
	}
	if !minLen(in.Address, 10) {
		out = append(out, MsgAddress)
	}
	if !minLen(in.City, 2) {
		out = append(out, MsgCity)
	}
	if !minLen(in.State, 2) {
		out = append(out, MsgState)
	}
	if !ValidContact(in.Contact) {
		out = append(out, MsgContact)
	}
	if !ValidEmail(in.EmailID) {
		out = append(out, MsgEmail)
	}
	if !hasImage {
		out = append(out, MsgImageMissing)
	}
	return out
}

// ValidateImage checks the declared content type first, then the size.
func ValidateImage(contentType string, size int64) error {
	if !AllowedImageType(contentType) {
		return Violations{MsgImageType}.Err()
	}
	if size > MaxImageBytes {
		return Violations{MsgImageSize}.Err()
	}
	return nil
}

// AllowedImageType reports whether the declared MIME type is accepted.
// Parameters such as "; charset=" are ignored.
func AllowedImageType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return AllowedImageTypes[strings.ToLower(mt)]
}

// ValidContact reports whether s is a 10-digit mobile number starting with 6-9.
func ValidContact(s string) bool {
	return govalidator.Matches(s, contactPattern)
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return govalidator.Matches(s, emailPattern)
}

// ValidateContactMessage checks a contact form submission.
func ValidateContactMessage(name, email, message string) Violations {
	name, email, message = trim(name), trim(email), trim(message)
	if govalidator.IsNull(name) || govalidator.IsNull(email) || govalidator.IsNull(message) {
		return Violations{MsgContactForm}
	}
	if !ValidEmail(email) {
		return Violations{MsgEmail}
	}
	return nil
}

func minLen(s string, n int) bool {
	return !govalidator.IsNull(s) && utf8.RuneCountInString(s) >= n
}

func trim(s string) string {
	return govalidator.Trim(s, "")
}
