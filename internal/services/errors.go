package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceFailure marks network, parse, or upstream errors from a single
	// metadata source. Always recovered locally by the collector.
	ErrSourceFailure = errors.New("source failure")
	// ErrIdentityConflict marks disagreement between sources about which
	// track was found, beyond the configured similarity tolerance.
	ErrIdentityConflict = errors.New("identity conflict")
	// ErrInsufficientData marks a run where no source returned usable data.
	ErrInsufficientData = errors.New("insufficient data")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureReason maps a research error to the human-readable reason prefix the
// orchestrator reports on its public boundary.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrIdentityConflict):
		return "identity mismatch between sources"
	case errors.Is(err, ErrInsufficientData):
		return "no source returned usable data"
	case errors.Is(err, ErrValidation):
		return "query failed validation"
	case errors.Is(err, ErrTimeout):
		return "research timed out"
	case errors.Is(err, ErrConfiguration):
		return "configuration problem"
	default:
		return "internal research error"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
