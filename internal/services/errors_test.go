package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrSourceFailure, "collector", "search", "beatport unreachable", errors.New("dial tcp: timeout"))
	if !errors.Is(err, ErrSourceFailure) {
		t.Fatalf("expected wrapped error to match ErrSourceFailure, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"collector", "search", "beatport unreachable", "dial tcp"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error message, got %q", want, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected nil marker to default to ErrTransient, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestFailureReasonClassification(t *testing.T) {
	cases := []struct {
		err    error
		expect string
	}{
		{Wrap(ErrIdentityConflict, "merger", "validate", "title similarity 0.41", nil), "identity mismatch"},
		{Wrap(ErrInsufficientData, "orchestrator", "search", "all sources failed", nil), "usable data"},
		{Wrap(ErrTimeout, "orchestrator", "wave", "", nil), "timed out"},
		{errors.New("boom"), "internal research error"},
	}
	for _, tc := range cases {
		reason := FailureReason(tc.err)
		if !strings.Contains(reason, tc.expect) {
			t.Fatalf("FailureReason(%v) = %q, expected to contain %q", tc.err, reason, tc.expect)
		}
	}
}
