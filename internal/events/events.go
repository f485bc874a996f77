// Package events defines the values published on the event bus.
package events

import (
	"net/http"
	"time"
)

// SchemaBuildStart is emitted before the custom fields of a site are walked.
type SchemaBuildStart struct{}

// SchemaBuildFinish is emitted once the schema delta is computed, also when
// the build failed.
type SchemaBuildFinish struct {
	Types       int
	Fields      int
	Connections int
	Skipped     int
	Err         error
	Duration    time.Duration
}

// FieldSkipped is emitted for every field definition left out of the schema.
type FieldSkipped struct {
	// Owner is the schema type the field would have been attached to.
	Owner   string
	FieldID string
	Reason  string
}

// HTTPStart is emitted when a request reaches the GraphQL endpoint. The
// published context carries the request id.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted after the response was written.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}

// GraphQLStart is emitted before an operation runs on the engine.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after an operation ran. Errors holds one entry
// per GraphQL error in the result.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}
