package constants

// Application Information
const (
	AppName    = "rhq-coregui"
	AppVersion = "4.14.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "7080"
	DefaultGRPCPort    = "7443"
	DefaultEnvironment = EnvDevelopment
)

// Key prefixes for the session store
const (
	SessionKeyPrefix = "rhq:session:"
)

// Built-in identities created by the seed
const (
	OverlordSubjectID = 1
	RHQAdminSubjectID = 2
	SuperUserRoleID   = 1
	AllResourcesRole  = 2
	RHQAdminName      = "rhqadmin"
	OverlordName      = "admin"
)

// Subject constraints
const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
)

const LogLevelInfo = "info"
