package kvcore

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Lead status codes recognized by the KVCore API.
const (
	LeadStatusNew = iota
	LeadStatusActive
	LeadStatusHot
	LeadStatusWarm
	LeadStatusWatch
	LeadStatusPending
	LeadStatusClosed
	LeadStatusArchived
)

// LeadStatuses maps lead status codes to their display labels.
var LeadStatuses = map[int]string{
	LeadStatusNew:      "New Lead",
	LeadStatusActive:   "Active Lead",
	LeadStatusHot:      "Hot Lead",
	LeadStatusWarm:     "Warm Lead",
	LeadStatusWatch:    "Watch",
	LeadStatusPending:  "Pending",
	LeadStatusClosed:   "Closed",
	LeadStatusArchived: "Archived",
}

// Call result codes for logged calls.
const (
	CallResultTalkedToLead = 1
	CallResultLeftMessage  = 2
	CallResultNoAnswer     = 3
)

// CallResults maps call result codes to their display labels.
var CallResults = map[int]string{
	CallResultTalkedToLead: "Talked To Lead",
	CallResultLeftMessage:  "Left Message",
	CallResultNoAnswer:     "No Answer",
}

// Call directions for logged calls.
const (
	CallDirectionOutbound = "outbound"
	CallDirectionInbound  = "inbound"
)

// CallDirections lists the valid call directions.
var CallDirections = []string{CallDirectionOutbound, CallDirectionInbound}

// DealTypes lists the valid deal types for search alerts. Callers may
// combine them as a comma-joined string (e.g. "buyer,seller"); the combined
// form is passed through to the API without set validation.
var DealTypes = []string{"buyer", "seller", "renter"}

// LeadTypeFilters lists the valid values for the contact list "type" filter.
var LeadTypeFilters = []string{"buyer", "seller", "renter", "agent", "vendor"}

// SearchAlertNumbers lists the valid search alert slots. Each contact has
// exactly two.
var SearchAlertNumbers = []int{1, 2}

// LeadStatusLabel returns the display label for a lead status code. The
// second return value is false when the code is unknown.
func LeadStatusLabel(code int) (string, bool) {
	label, ok := LeadStatuses[code]
	return label, ok
}

// LeadStatusCode returns the status code for a display label. If two codes
// were ever assigned the same label, the lowest code wins; the current table
// has no collisions. The second return value is false when the label is
// unknown.
func LeadStatusCode(label string) (int, bool) {
	code := -1
	for c, l := range LeadStatuses {
		if l != label {
			continue
		}
		if code == -1 || c < code {
			code = c
		}
	}
	return code, code != -1
}

// IsValidCallResult reports whether code is a known call result.
func IsValidCallResult(code int) bool {
	_, ok := CallResults[code]
	return ok
}

// IsValidCallDirection reports whether direction is a known call direction.
func IsValidCallDirection(direction string) bool {
	for _, d := range CallDirections {
		if d == direction {
			return true
		}
	}
	return false
}

// IsValidSearchAlertNumber reports whether n is a valid search alert slot.
func IsValidSearchAlertNumber(n int) bool {
	for _, v := range SearchAlertNumbers {
		if v == n {
			return true
		}
	}
	return false
}

// Validation rules shared by the resource services. The In rules skip empty
// values, so optional fields are only checked when set.
var (
	callResultRule = validation.In(
		CallResultTalkedToLead, CallResultLeftMessage, CallResultNoAnswer,
	).Error("must be one of 1, 2, 3")

	callDirectionRule = validation.In(
		CallDirectionOutbound, CallDirectionInbound,
	).Error(`must be "outbound" or "inbound"`)
)
