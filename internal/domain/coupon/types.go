package coupon

import "errors"

var (
	ErrInvalidStatus    = errors.New("invalid coupon status")
	ErrInvalidEventType = errors.New("invalid event type")
)

type Status string

const (
	StatusIssued   Status = "ISSUED"
	StatusVerified Status = "VERIFIED"
	StatusVoid     Status = "VOID"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusIssued, StatusVerified, StatusVoid:
		return true
	default:
		return false
	}
}

// CanVerify reports whether the coupon may still transition to VERIFIED.
// The lifecycle only moves forward: ISSUED -> VERIFIED or ISSUED -> VOID.
func (s Status) CanVerify() bool {
	return s == StatusIssued
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type EventType string

const (
	EventIssue         EventType = "ISSUE"
	EventScan          EventType = "SCAN"
	EventVerifyFail    EventType = "VERIFY_FAIL"
	EventVerifySuccess EventType = "VERIFY_SUCCESS"
)

func (e EventType) String() string {
	return string(e)
}

func (e EventType) IsValid() bool {
	switch e {
	case EventIssue, EventScan, EventVerifyFail, EventVerifySuccess:
		return true
	default:
		return false
	}
}
