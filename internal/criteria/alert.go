package criteria

import (
	"fmt"

	"github.com/rhq-project/rhq-coregui/internal/model"
)

const priorityRank = "CASE %s WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END"

var alertDefinitionSchema = newSchema("AlertDefinition", "rhq_alert_definition", &model.AlertDefinition{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("name", KindString).
	filter("description", KindString).
	filter("priority", KindEnum).values(model.AlertPriorityValues()...).
	filter("enabled", KindBool).
	filter("deleted", KindBool).
	override("resourceIds", KindIntList, "rhq_alert_definition.resource_id IN ?").
	override("resourceTypeId", KindInt,
		"rhq_alert_definition.resource_id IN (SELECT r.id FROM rhq_resource r WHERE r.resource_type_id = ?)").
	fetch("resource", "conditions").
	sort("name", "ctime").
	sortOverride("priority", rank("rhq_alert_definition.priority")).
	sortOverride("resourceName", "(SELECT r.name FROM rhq_resource r WHERE r.id = rhq_alert_definition.resource_id)").
	authorize(AuthResource, "rhq_alert_definition.resource_id")

// AlertDefinitionCriteria selects alert definitions. Removed definitions are
// hidden unless the deleted filter is changed or cleared.
type AlertDefinitionCriteria struct {
	Base
}

func NewAlertDefinitionCriteria() *AlertDefinitionCriteria {
	c := &AlertDefinitionCriteria{}
	c.init(alertDefinitionSchema)
	c.set("deleted", false)
	return c
}

func (c *AlertDefinitionCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *AlertDefinitionCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *AlertDefinitionCriteria) AddFilterName(name string) { c.set("name", name) }
func (c *AlertDefinitionCriteria) AddFilterDescription(desc string) { c.set("description", desc) }
func (c *AlertDefinitionCriteria) AddFilterEnabled(enabled bool) { c.set("enabled", enabled) }
func (c *AlertDefinitionCriteria) AddFilterDeleted(deleted bool) { c.set("deleted", deleted) }
func (c *AlertDefinitionCriteria) AddFilterResourceIDs(ids ...int) { c.set("resourceIds", ids) }
func (c *AlertDefinitionCriteria) AddFilterResourceTypeID(id int) { c.set("resourceTypeId", id) }

func (c *AlertDefinitionCriteria) AddFilterPriority(priority model.AlertPriority) {
	c.set("priority", string(priority))
}

func (c *AlertDefinitionCriteria) FetchResource(fetch bool) { c.fetch("resource", fetch) }
func (c *AlertDefinitionCriteria) FetchConditions(fetch bool) { c.fetch("conditions", fetch) }

func (c *AlertDefinitionCriteria) AddSortName(o model.PageOrdering) { c.sortBy("name", o) }
func (c *AlertDefinitionCriteria) AddSortPriority(o model.PageOrdering) { c.sortBy("priority", o) }
func (c *AlertDefinitionCriteria) AddSortCtime(o model.PageOrdering) { c.sortBy("ctime", o) }
func (c *AlertDefinitionCriteria) AddSortResourceName(o model.PageOrdering) {
	c.sortBy("resourceName", o)
}

const alertDefinitionOf = "(SELECT ad.%s FROM rhq_alert_definition ad WHERE ad.id = rhq_alert.alert_definition_id)"

var alertSchema = newSchema("Alert", "rhq_alert", &model.Alert{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("alertDefinitionId", KindInt).
	override("alertDefinitionName", KindString,
		"rhq_alert.alert_definition_id IN (SELECT ad.id FROM rhq_alert_definition ad WHERE LOWER(ad.name) LIKE ?)").
	override("priorities", KindEnumList,
		"rhq_alert.alert_definition_id IN (SELECT ad.id FROM rhq_alert_definition ad WHERE ad.priority IN ?)").
	values(model.AlertPriorityValues()...).
	override("resourceIds", KindIntList,
		"rhq_alert.alert_definition_id IN (SELECT ad.id FROM rhq_alert_definition ad WHERE ad.resource_id IN ?)").
	override("startTime", KindInt64, "rhq_alert.ctime >= ?").
	override("endTime", KindInt64, "rhq_alert.ctime <= ?").
	override("unacknowledgedOnly", KindBool, "rhq_alert.acknowledge_time IS NULL").
	filter("acknowledgingSubject", KindString).
	fetch("alertDefinition").
	sort("ctime", "acknowledgeTime").
	sortOverride("priority", "(SELECT "+rank("ad.priority")+
		" FROM rhq_alert_definition ad WHERE ad.id = rhq_alert.alert_definition_id)").
	sortOverride("alertDefinitionName", definitionColumn("name")).
	authorize(AuthResource, definitionColumn("resource_id"))

// AlertCriteria selects fired alerts. Authorization follows the resource of
// each alert's definition.
type AlertCriteria struct {
	Base
}

func NewAlertCriteria() *AlertCriteria {
	c := &AlertCriteria{}
	c.init(alertSchema)
	return c
}

func (c *AlertCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *AlertCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *AlertCriteria) AddFilterAlertDefinitionID(id int) { c.set("alertDefinitionId", id) }
func (c *AlertCriteria) AddFilterAlertDefinitionName(name string) { c.set("alertDefinitionName", name) }
func (c *AlertCriteria) AddFilterResourceIDs(ids ...int) { c.set("resourceIds", ids) }
func (c *AlertCriteria) AddFilterStartTime(t int64) { c.set("startTime", t) }
func (c *AlertCriteria) AddFilterEndTime(t int64) { c.set("endTime", t) }

// AddFilterUnacknowledgedOnly keeps alerts nobody acknowledged yet. It has no
// effect when false.
func (c *AlertCriteria) AddFilterUnacknowledgedOnly(only bool) { c.set("unacknowledgedOnly", only) }

func (c *AlertCriteria) AddFilterAcknowledgingSubject(name string) {
	c.set("acknowledgingSubject", name)
}

func (c *AlertCriteria) AddFilterPriorities(priorities ...model.AlertPriority) {
	values := make([]string, len(priorities))
	for i, p := range priorities {
		values[i] = string(p)
	}
	c.set("priorities", values)
}

func (c *AlertCriteria) FetchAlertDefinition(fetch bool) { c.fetch("alertDefinition", fetch) }

func (c *AlertCriteria) AddSortCtime(o model.PageOrdering) { c.sortBy("ctime", o) }
func (c *AlertCriteria) AddSortAcknowledgeTime(o model.PageOrdering) { c.sortBy("acknowledgeTime", o) }
func (c *AlertCriteria) AddSortPriority(o model.PageOrdering) { c.sortBy("priority", o) }
func (c *AlertCriteria) AddSortAlertDefinitionName(o model.PageOrdering) {
	c.sortBy("alertDefinitionName", o)
}

func rank(column string) string {
	return fmt.Sprintf(priorityRank, column)
}

func definitionColumn(column string) string {
	return fmt.Sprintf(alertDefinitionOf, column)
}
