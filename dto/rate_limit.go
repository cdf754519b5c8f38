package dto

import "time"

// RateLimitInfo describes where a participant stands in the current window
// for one endpoint type. It is returned as the body of a 429.
type RateLimitInfo struct {
	Allowed      bool       `json:"allowed"`
	EndpointType string     `json:"endpoint_type,omitempty"`
	Limit        int        `json:"limit,omitempty"`
	Remaining    int        `json:"remaining"`
	ResetTime    *time.Time `json:"reset_time,omitempty"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}
