package items

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\- ]{7,20}$`)

// dateLayout is the form wire format for lost/found dates
const dateLayout = "2006-01-02"

// ParseItemDate parses a form date and checks it is not in the future.
// Reports about things people lose tomorrow are not accepted.
func ParseItemDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.New("date must be in YYYY-MM-DD format")
	}
	if t.After(time.Now()) {
		return time.Time{}, errors.New("date cannot be in the future")
	}
	return t, nil
}

// ValidateCreate checks posting input beyond binding tags. Found items must
// display the poster's name so the owner knows who to thank.
func ValidateCreate(req *CreateItemRequest, itemType string) error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return errors.New("description is required")
	}
	if !IsValidCategory(req.Category) {
		return errors.New("invalid category")
	}
	if strings.TrimSpace(req.Location) == "" {
		if itemType == TypeLost {
			return errors.New("location where the item was lost is required")
		}
		return errors.New("location where the item was found is required")
	}
	if req.ContactNumber != "" && !phonePattern.MatchString(req.ContactNumber) {
		return errors.New("invalid contact number")
	}
	if itemType == TypeFound && req.ShowName != nil && !*req.ShowName {
		return errors.New("found item posts must display the poster's name")
	}
	return nil
}

// ValidateUpdate checks edit input. Only supplied fields are checked.
func ValidateUpdate(req *UpdateItemRequest) error {
	if req.Category != "" && !IsValidCategory(req.Category) {
		return errors.New("invalid category")
	}
	if req.ContactNumber != "" && !phonePattern.MatchString(req.ContactNumber) {
		return errors.New("invalid contact number")
	}
	if req.Date != "" {
		if _, err := ParseItemDate(req.Date); err != nil {
			return err
		}
	}
	return nil
}
