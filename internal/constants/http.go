package constants

// HTTP Header Names
const (
	HeaderContentType    = "Content-Type"
	HeaderAuthorization  = "Authorization"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderSessionID      = "RHQ-Session-Id"
	HeaderBearerPrefix   = "Bearer "
)

// gRPC metadata keys carried in trailers
const (
	MetadataSessionID     = "rhq-session-id"
	MetadataCorrelationID = "rhq-correlation-id"
	MetadataTimestamp     = "rhq-timestamp"
	MetadataFaultCode     = "rhq-fault-code"
)

const MsgBadRequest = "Invalid request"
