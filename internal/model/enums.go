package model

// InventoryStatus is the lifecycle state of a resource in inventory.
type InventoryStatus string

const (
	InventoryStatusNew           InventoryStatus = "NEW"
	InventoryStatusIgnored       InventoryStatus = "IGNORED"
	InventoryStatusCommitted     InventoryStatus = "COMMITTED"
	InventoryStatusDeleted       InventoryStatus = "DELETED"
	InventoryStatusUninventoried InventoryStatus = "UNINVENTORIED"
)

func InventoryStatusValues() []string {
	return []string{"NEW", "IGNORED", "COMMITTED", "DELETED", "UNINVENTORIED"}
}

// AvailabilityType is the reported availability of a resource.
type AvailabilityType string

const (
	AvailabilityUp       AvailabilityType = "UP"
	AvailabilityDown     AvailabilityType = "DOWN"
	AvailabilityDisabled AvailabilityType = "DISABLED"
	AvailabilityUnknown  AvailabilityType = "UNKNOWN"
	AvailabilityMissing  AvailabilityType = "MISSING"
)

func AvailabilityTypeValues() []string {
	return []string{"UP", "DOWN", "DISABLED", "UNKNOWN", "MISSING"}
}

type ResourceCategory string

const (
	ResourceCategoryPlatform ResourceCategory = "PLATFORM"
	ResourceCategoryServer   ResourceCategory = "SERVER"
	ResourceCategoryService  ResourceCategory = "SERVICE"
)

func ResourceCategoryValues() []string {
	return []string{"PLATFORM", "SERVER", "SERVICE"}
}

// GroupCategory is COMPATIBLE when every member shares one resource type.
type GroupCategory string

const (
	GroupCategoryCompatible GroupCategory = "COMPATIBLE"
	GroupCategoryMixed      GroupCategory = "MIXED"
)

func GroupCategoryValues() []string {
	return []string{"COMPATIBLE", "MIXED"}
}

type AlertPriority string

const (
	AlertPriorityHigh   AlertPriority = "HIGH"
	AlertPriorityMedium AlertPriority = "MEDIUM"
	AlertPriorityLow    AlertPriority = "LOW"
)

func AlertPriorityValues() []string {
	return []string{"HIGH", "MEDIUM", "LOW"}
}

type AlertConditionCategory string

const (
	AlertConditionAvailability AlertConditionCategory = "AVAILABILITY"
	AlertConditionThreshold    AlertConditionCategory = "THRESHOLD"
	AlertConditionBaseline     AlertConditionCategory = "BASELINE"
	AlertConditionChange       AlertConditionCategory = "CHANGE"
	AlertConditionTrait        AlertConditionCategory = "TRAIT"
	AlertConditionControl      AlertConditionCategory = "CONTROL"
	AlertConditionEvent        AlertConditionCategory = "EVENT"
)

func AlertConditionCategoryValues() []string {
	return []string{"AVAILABILITY", "THRESHOLD", "BASELINE", "CHANGE", "TRAIT", "CONTROL", "EVENT"}
}

// BooleanExpression joins the conditions of an alert definition.
type BooleanExpression string

const (
	BooleanExpressionAny BooleanExpression = "ANY"
	BooleanExpressionAll BooleanExpression = "ALL"
)

func BooleanExpressionValues() []string {
	return []string{"ANY", "ALL"}
}

type OperationRequestStatus string

const (
	OperationStatusInProgress OperationRequestStatus = "INPROGRESS"
	OperationStatusSuccess    OperationRequestStatus = "SUCCESS"
	OperationStatusFailure    OperationRequestStatus = "FAILURE"
	OperationStatusCanceled   OperationRequestStatus = "CANCELED"
)

func OperationRequestStatusValues() []string {
	return []string{"INPROGRESS", "SUCCESS", "FAILURE", "CANCELED"}
}

type EventSeverity string

const (
	EventSeverityDebug EventSeverity = "DEBUG"
	EventSeverityInfo  EventSeverity = "INFO"
	EventSeverityWarn  EventSeverity = "WARN"
	EventSeverityError EventSeverity = "ERROR"
	EventSeverityFatal EventSeverity = "FATAL"
)

func EventSeverityValues() []string {
	return []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
}

type PluginStatus string

const (
	PluginStatusInstalled PluginStatus = "INSTALLED"
	PluginStatusDeleted   PluginStatus = "DELETED"
)

func PluginStatusValues() []string {
	return []string{"INSTALLED", "DELETED"}
}

type PluginDeploymentType string

const (
	PluginDeploymentAgent  PluginDeploymentType = "AGENT"
	PluginDeploymentServer PluginDeploymentType = "SERVER"
)

func PluginDeploymentTypeValues() []string {
	return []string{"AGENT", "SERVER"}
}
