// Package validation checks business records against the directory schema,
// accumulating one (field path, message) pair per violation instead of
// stopping at the first. Paths use dotted segments with numeric indexes
// ("addresses.0.emails.1") so errors point at the exact offending value.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bizlink/directory-backend/internal/domain/entities"
)

// FieldError is a single schema violation.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s - %s", e.Path, e.Message)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var weekdaySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(entities.Weekdays))
	for _, d := range entities.Weekdays {
		set[d] = struct{}{}
	}
	return set
}()

// ValidateBusiness checks a business record against the directory schema.
// ID and audit fields are not the record author's responsibility and are
// ignored. A nil return means the record is clean.
func ValidateBusiness(b *entities.Business) []FieldError {
	var errs []FieldError

	if utf8.RuneCountInString(b.Name) < 2 {
		errs = append(errs, FieldError{"name", "Name must be at least 2 characters"})
	}
	if utf8.RuneCountInString(b.Brief) < 10 {
		errs = append(errs, FieldError{"brief", "Brief description must be at least 10 characters"})
	}
	if utf8.RuneCountInString(b.Description) < 20 {
		errs = append(errs, FieldError{"description", "Description must be at least 20 characters"})
	}
	if b.ProfilePhoto != "" && !isURL(b.ProfilePhoto) {
		errs = append(errs, FieldError{"profilePhoto", "Must be a valid URL"})
	}
	if len(b.Categories) == 0 {
		errs = append(errs, FieldError{"categories", "At least one category is required"})
	}
	if len(b.Addresses) == 0 {
		errs = append(errs, FieldError{"addresses", "At least one address is required"})
	}

	for i, addr := range b.Addresses {
		errs = append(errs, validateAddress(fmt.Sprintf("addresses.%d", i), addr)...)
	}

	return errs
}

func validateAddress(path string, addr entities.Address) []FieldError {
	var errs []FieldError

	lines := 0
	for _, line := range addr.Lines {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	if lines == 0 {
		errs = append(errs, FieldError{path + ".lines", "At least one address line is required"})
	}

	if strings.TrimSpace(addr.City) == "" {
		errs = append(errs, FieldError{path + ".city", "City is required"})
	}
	if addr.Link != "" && !isURL(addr.Link) {
		errs = append(errs, FieldError{path + ".link", "Must be a valid URL"})
	}

	for j, email := range addr.Emails {
		if !emailPattern.MatchString(email) {
			errs = append(errs, FieldError{fmt.Sprintf("%s.emails.%d", path, j), "Invalid email format"})
		}
	}

	if addr.Availability != nil {
		for day := range addr.Availability.Schedule {
			if _, ok := weekdaySet[day]; !ok {
				errs = append(errs, FieldError{path + ".availabilities.schedule." + day, "Invalid weekday"})
			}
		}
	}

	return errs
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
