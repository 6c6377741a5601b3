// Package model provides data models for the Legal AI Assistant.
package model

// DefaultMaxResults is the number of fragments retrieved when the client
// does not specify max_results.
const DefaultMaxResults = 5

// UnknownSource is the sentinel used when a retrieved fragment carries no
// source metadata.
const UnknownSource = "Unknown"

// Query represents one question submitted by a client.
type Query struct {
	Question   string `json:"question" binding:"required"`
	MaxResults int    `json:"max_results"`
}

// Normalize applies defaults to optional fields.
func (q *Query) Normalize() {
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}
}

// DocumentFragment is one chunk of source document text returned by
// similarity search. Source is never empty; fragments retrieved without
// source metadata carry UnknownSource.
type DocumentFragment struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	ChunkID int64  `json:"chunk_id"`
}

// EventKind identifies the type of a stream event.
type EventKind string

// Event kinds emitted during a streamed answer. Every stream ends with
// exactly one of EventError or EventComplete.
const (
	EventStatus   EventKind = "status"
	EventSources  EventKind = "sources"
	EventChunk    EventKind = "chunk"
	EventError    EventKind = "error"
	EventComplete EventKind = "complete"
)

// StreamEvent is the unit transmitted to the client over the event stream.
type StreamEvent struct {
	Kind    EventKind
	Payload any
}

// Terminal reports whether the event ends the stream.
func (e StreamEvent) Terminal() bool {
	return e.Kind == EventError || e.Kind == EventComplete
}

// StatusPayload announces a phase change ("Searching...", "Generating...").
type StatusPayload struct {
	Message string `json:"message"`
}

// SourcesPayload reports the retrieved document set. Sources is deduplicated;
// DocCount is the total fragment count before deduplication.
type SourcesPayload struct {
	Sources  []string `json:"sources"`
	DocCount int      `json:"doc_count"`
}

// ChunkPayload carries one non-empty generated answer token.
type ChunkPayload struct {
	Content string `json:"content"`
}

// ErrorPayload carries a user-facing error message. Terminal.
type ErrorPayload struct {
	Error string `json:"error"`
}

// CompletePayload marks a successful finish. Terminal.
type CompletePayload struct {
	Message string `json:"message"`
}

// QueryResult is the response of the non-streaming query endpoint.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
