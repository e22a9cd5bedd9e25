package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldDocumentID is the ingested document ID
	FieldDocumentID = "document_id"

	// FieldLessonID is the lesson ID
	FieldLessonID = "lesson_id"

	// FieldStage is the ingestion pipeline stage
	FieldStage = "stage"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSource is the content source identifier (upload, text, webpage, youtube)
	FieldSource = "source"

	// FieldSubject is the academic subject of the content
	FieldSubject = "subject"

	// FieldUserID is the owning user ID
	FieldUserID = "user_id"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"

	// FieldBackend is the generation or search backend name
	FieldBackend = "backend"
)
