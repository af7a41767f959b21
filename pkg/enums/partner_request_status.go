package enums

import "fmt"

// PartnerRequestStatus describes the moderation state of a partner application.
type PartnerRequestStatus string

const (
	PartnerRequestStatusPending  PartnerRequestStatus = "pending"
	PartnerRequestStatusApproved PartnerRequestStatus = "approved"
	PartnerRequestStatusRejected PartnerRequestStatus = "rejected"
)

var validPartnerRequestStatuses = []PartnerRequestStatus{
	PartnerRequestStatusPending,
	PartnerRequestStatusApproved,
	PartnerRequestStatusRejected,
}

// IsValid reports whether the value matches the canonical enum.
func (s PartnerRequestStatus) IsValid() bool {
	for _, candidate := range validPartnerRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePartnerRequestStatus converts the raw string to PartnerRequestStatus.
func ParsePartnerRequestStatus(value string) (PartnerRequestStatus, error) {
	for _, candidate := range validPartnerRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid partner request status %q", value)
}
