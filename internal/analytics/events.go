// Package analytics publishes query events to Kafka through a buffered,
// lossy collector. Event delivery never blocks or fails a search request.
package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventCacheHit   EventType = "cache_hit"
	EventCacheMiss  EventType = "cache_miss"
	EventZeroResult EventType = "zero_result"
	EventInvalid    EventType = "invalid_query"
)

// QueryEvent describes one evaluated query.
type QueryEvent struct {
	Type            EventType `json:"type"`
	Query           string    `json:"query"`
	Threshold       float64   `json:"threshold"`
	UniqueTerms     int       `json:"unique_terms"`
	RequiredMatches int       `json:"required_matches"`
	Candidates      int       `json:"candidates"`
	Returned        int       `json:"returned"`
	LatencyMs       int64     `json:"latency_ms"`
	CacheHit        bool      `json:"cache_hit"`
	Timestamp       time.Time `json:"timestamp"`
	RequestID       string    `json:"request_id"`
}
