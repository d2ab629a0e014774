package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBlankListName   = errors.New("model: list name is required")
	ErrInvalidListName = errors.New("model: list name cannot contain '|' or line breaks")
	ErrInvalidListIcon = errors.New("model: list icon path cannot contain line breaks")
)

// lists are stored one "name|iconPath" line each.
const (
	nameReserved = "|\r\n"
	iconReserved = "\r\n"
)

// UnlistedLabel is shown for tasks without a list.
const UnlistedLabel = "Unlisted"

// List is a user-defined category. IconPath is nil when no icon was chosen.
type List struct {
	Name     string
	IconPath *string
}

func (l List) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrBlankListName
	}
	if strings.ContainsAny(l.Name, nameReserved) {
		return fmt.Errorf("%w: %q", ErrInvalidListName, l.Name)
	}
	if l.IconPath != nil && strings.ContainsAny(*l.IconPath, iconReserved) {
		return fmt.Errorf("%w: %q", ErrInvalidListIcon, *l.IconPath)
	}
	return nil
}

func (l List) Icon() string {
	if l.IconPath == nil {
		return ""
	}
	return *l.IconPath
}

// SameListName compares list names the way uniqueness is enforced.
func SameListName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
