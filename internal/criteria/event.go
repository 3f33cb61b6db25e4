package criteria

import "github.com/rhq-project/rhq-coregui/internal/model"

var eventSchema = newSchema("Event", "rhq_event", &model.Event{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	override("severities", KindEnumList, "rhq_event.severity IN ?").
	values(model.EventSeverityValues()...).
	filter("detail", KindString).
	filter("sourceLocation", KindString).
	filter("resourceId", KindInt).
	override("resourceGroupId", KindInt,
		"rhq_event.resource_id IN (SELECT rgm.resource_id FROM rhq_resource_group_members rgm WHERE rgm.resource_group_id = ?)").
	override("startTime", KindInt64, "rhq_event.timestamp >= ?").
	override("endTime", KindInt64, "rhq_event.timestamp <= ?").
	fetch("resource").
	sort("timestamp").
	sortOverride("severity",
		"CASE rhq_event.severity WHEN 'FATAL' THEN 5 WHEN 'ERROR' THEN 4 WHEN 'WARN' THEN 3 WHEN 'INFO' THEN 2 ELSE 1 END").
	authorize(AuthResource, "rhq_event.resource_id")

// EventCriteria selects events. Severity sorts by rank, not alphabetically.
type EventCriteria struct {
	Base
}

func NewEventCriteria() *EventCriteria {
	c := &EventCriteria{}
	c.init(eventSchema)
	return c
}

func (c *EventCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *EventCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *EventCriteria) AddFilterDetail(detail string) { c.set("detail", detail) }
func (c *EventCriteria) AddFilterSourceLocation(loc string) { c.set("sourceLocation", loc) }
func (c *EventCriteria) AddFilterResourceID(id int) { c.set("resourceId", id) }
func (c *EventCriteria) AddFilterResourceGroupID(id int) { c.set("resourceGroupId", id) }
func (c *EventCriteria) AddFilterStartTime(t int64) { c.set("startTime", t) }
func (c *EventCriteria) AddFilterEndTime(t int64) { c.set("endTime", t) }

func (c *EventCriteria) AddFilterSeverities(severities ...model.EventSeverity) {
	values := make([]string, len(severities))
	for i, s := range severities {
		values[i] = string(s)
	}
	c.set("severities", values)
}

func (c *EventCriteria) FetchResource(fetch bool) { c.fetch("resource", fetch) }

func (c *EventCriteria) AddSortTimestamp(o model.PageOrdering) { c.sortBy("timestamp", o) }
func (c *EventCriteria) AddSortSeverity(o model.PageOrdering) { c.sortBy("severity", o) }
