package logitrust

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	EmptyPlaceWarning   = "분석할 장소를 입력해 주세요."
	placeTooLongWarning = "장소명은 %d자 이하로 입력해 주세요."
)

var ErrRateLimited = errors.New("too many analysis requests")

// ValidationError rejects a TargetPlace before any remote call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func normalizePlace(raw string, maxLength int) (string, error) {
	place := strings.TrimSpace(raw)
	if place == "" {
		return "", &ValidationError{Message: EmptyPlaceWarning}
	}

	if utf8.RuneCountInString(place) > maxLength {
		return "", &ValidationError{Message: fmt.Sprintf(placeTooLongWarning, maxLength)}
	}

	return place, nil
}
