package types

import (
	"net/http"
)

type TrackingAction struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
	Item   int    `json:"item,omitempty"`
}

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackFilters(sessionId string, filters *Filters, resultLen int, page int)
	TrackAction(sessionId string, value TrackingAction) error
	Close() error
}
