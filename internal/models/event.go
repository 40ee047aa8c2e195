package models

import "time"

// RawEventLog is one record as returned by the lab back end's event-log listing.
type RawEventLog struct {
	ID          string `json:"_id"`
	EventID     string `json:"event_id"`
	Message     string `json:"message"`
	PerformedBy string `json:"performedBy"`
	Role        string `json:"role"`
	CreatedAt   string `json:"createdAt"`
}

// EventLogRecord is the dashboard's view of a RawEventLog.
// Date is "YYYY-MM-DD" or empty when createdAt could not be parsed.
type EventLogRecord struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	Operator  string    `json:"operator"`
	Role      string    `json:"role,omitempty"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Category  string    `json:"category"`
}

// DailyEventBucket holds per-status counts for one calendar day.
type DailyEventBucket struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Success int    `json:"success"`
	Info    int    `json:"info"`
	Warning int    `json:"warning"`
	Error   int    `json:"error"`
}

// Distribution counts records by status over the whole, unwindowed list.
type Distribution struct {
	Success int `json:"Success"`
	Info    int `json:"Info"`
	Warning int `json:"Warning"`
	Error   int `json:"Error"`
}

// EventStats is the GET /dashboard/events payload.
// Degraded is set when the source failed and the result is the empty fallback.
type EventStats struct {
	Days         int                `json:"days"`
	Records      []EventLogRecord   `json:"records"`
	Daily        []DailyEventBucket `json:"daily"`
	Distribution Distribution       `json:"distribution"`
	Degraded     bool               `json:"degraded"`
}

// EventLogIngestRequest is the POST /event-logs payload.
// event_id is optional; pass an Idempotency-Key header for retries.
type EventLogIngestRequest struct {
	EventID     string `json:"event_id,omitempty"`
	Message     string `json:"message"`
	PerformedBy string `json:"performedBy,omitempty"`
	Role        string `json:"role,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// EventLogIngestResponse is returned by POST /event-logs.
// Duplicate indicates idempotent success (the record already existed).
type EventLogIngestResponse struct {
	ID        string `json:"_id"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}
