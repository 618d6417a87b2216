package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches pkg/middleware/auth.go keys)
	FieldUserID = "user_id"

	// Domain
	FieldTargetID = "target_id"
	FieldReelID   = "reel_id"
	FieldMemoryID = "memory_id"

	// Service
	FieldService = "service"
)
