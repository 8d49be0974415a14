package tracking

import (
	"net/http"

	"github.com/matst80/slask-dashboard/pkg/types"
)

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
	Time      int64  `json:"ts"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
	Referer      string `json:"referer,omitempty"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func NewSessionEvent(base *BaseEvent, r *http.Request) *SessionEvent {
	return &SessionEvent{
		BaseEvent:    base,
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
		Referer:      r.Header.Get("Referer"),
	}
}

type FilterEvent struct {
	*types.Filters
	*BaseEvent
	NumberOfResults int `json:"noi"`
	Page            int `json:"page"`
}

type ActionEvent struct {
	*BaseEvent
	Action string `json:"action"`
	Reason string `json:"reason"`
	Item   int    `json:"item,omitempty"`
}
