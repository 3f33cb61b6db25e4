package criteria

import "github.com/rhq-project/rhq-coregui/internal/model"

var operationHistorySchema = newSchema("OperationHistory", "rhq_operation_history", &model.OperationHistory{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("jobName", KindString).
	filter("jobGroup", KindString).
	filter("operationName", KindString).
	filter("status", KindEnum).values(model.OperationRequestStatusValues()...).
	filter("subjectName", KindString).
	override("resourceIds", KindIntList, "rhq_operation_history.resource_id IN ?").
	override("resourceTypeId", KindInt,
		"rhq_operation_history.resource_id IN (SELECT r.id FROM rhq_resource r WHERE r.resource_type_id = ?)").
	override("startTime", KindInt64, "rhq_operation_history.created_time >= ?").
	override("endTime", KindInt64, "rhq_operation_history.created_time <= ?").
	fetch("resource").
	sort("createdTime", "startedTime", "operationName", "status").
	authorize(AuthResource, "rhq_operation_history.resource_id")

// OperationHistoryCriteria selects resource operation histories.
type OperationHistoryCriteria struct {
	Base
}

func NewOperationHistoryCriteria() *OperationHistoryCriteria {
	c := &OperationHistoryCriteria{}
	c.init(operationHistorySchema)
	return c
}

func (c *OperationHistoryCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *OperationHistoryCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *OperationHistoryCriteria) AddFilterJobName(name string) { c.set("jobName", name) }
func (c *OperationHistoryCriteria) AddFilterJobGroup(group string) { c.set("jobGroup", group) }
func (c *OperationHistoryCriteria) AddFilterOperationName(name string) { c.set("operationName", name) }
func (c *OperationHistoryCriteria) AddFilterSubjectName(name string) { c.set("subjectName", name) }
func (c *OperationHistoryCriteria) AddFilterResourceIDs(ids ...int) { c.set("resourceIds", ids) }
func (c *OperationHistoryCriteria) AddFilterResourceTypeID(id int) { c.set("resourceTypeId", id) }
func (c *OperationHistoryCriteria) AddFilterStartTime(t int64) { c.set("startTime", t) }
func (c *OperationHistoryCriteria) AddFilterEndTime(t int64) { c.set("endTime", t) }

func (c *OperationHistoryCriteria) AddFilterStatus(status model.OperationRequestStatus) {
	c.set("status", string(status))
}

func (c *OperationHistoryCriteria) FetchResource(fetch bool) { c.fetch("resource", fetch) }

func (c *OperationHistoryCriteria) AddSortCreatedTime(o model.PageOrdering) { c.sortBy("createdTime", o) }
func (c *OperationHistoryCriteria) AddSortStartedTime(o model.PageOrdering) { c.sortBy("startedTime", o) }
func (c *OperationHistoryCriteria) AddSortStatus(o model.PageOrdering) { c.sortBy("status", o) }
func (c *OperationHistoryCriteria) AddSortOperationName(o model.PageOrdering) {
	c.sortBy("operationName", o)
}
