package criteria

import "github.com/rhq-project/rhq-coregui/internal/model"

var resourceSchema = newSchema("Resource", "rhq_resource", &model.Resource{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("name", KindString).
	filter("resourceKey", KindString).
	filter("description", KindString).
	filter("version", KindString).
	filter("inventoryStatus", KindEnum).values(model.InventoryStatusValues()...).
	filter("currentAvailability", KindEnum).values(model.AvailabilityTypeValues()...).
	filter("resourceTypeId", KindInt).
	filter("parentResourceId", KindInt).
	filter("agentId", KindInt).
	override("resourceTypeName", KindString,
		"rhq_resource.resource_type_id IN (SELECT rt.id FROM rhq_resource_type rt WHERE LOWER(rt.name) LIKE ?)").
	override("resourceCategories", KindEnumList,
		"rhq_resource.resource_type_id IN (SELECT rt.id FROM rhq_resource_type rt WHERE rt.category IN ?)").
	values(model.ResourceCategoryValues()...).
	override("pluginName", KindString,
		"rhq_resource.resource_type_id IN (SELECT rt.id FROM rhq_resource_type rt WHERE LOWER(rt.plugin) LIKE ?)").
	override("parentResourceName", KindString,
		"rhq_resource.parent_resource_id IN (SELECT p.id FROM rhq_resource p WHERE LOWER(p.name) LIKE ?)").
	override("agentName", KindString,
		"rhq_resource.agent_id IN (SELECT a.id FROM rhq_agent a WHERE LOWER(a.name) LIKE ?)").
	override("explicitGroupIds", KindIntList,
		"rhq_resource.id IN (SELECT rgm.resource_id FROM rhq_resource_group_members rgm WHERE rgm.resource_group_id IN ?)").
	fetch("resourceType", "parentResource", "childResources", "agent", "explicitGroups").
	sort("name", "resourceKey", "version", "inventoryStatus", "currentAvailability", "ctime", "mtime").
	sortOverride("resourceTypeName", "(SELECT rt.name FROM rhq_resource_type rt WHERE rt.id = rhq_resource.resource_type_id)").
	sortOverride("resourceCategory", "(SELECT rt.category FROM rhq_resource_type rt WHERE rt.id = rhq_resource.resource_type_id)").
	sortOverride("pluginName", "(SELECT rt.plugin FROM rhq_resource_type rt WHERE rt.id = rhq_resource.resource_type_id)").
	sortOverride("agentName", "(SELECT a.name FROM rhq_agent a WHERE a.id = rhq_resource.agent_id)").
	sortOverride("parentResourceName", "(SELECT p.name FROM rhq_resource p WHERE p.id = rhq_resource.parent_resource_id)").
	authorize(AuthResource, "rhq_resource.id")

// ResourceCriteria selects resources. Only committed resources match unless
// the inventory status filter is changed or cleared.
type ResourceCriteria struct {
	Base
}

func NewResourceCriteria() *ResourceCriteria {
	c := &ResourceCriteria{}
	c.init(resourceSchema)
	c.set("inventoryStatus", string(model.InventoryStatusCommitted))
	return c
}

func (c *ResourceCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *ResourceCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *ResourceCriteria) AddFilterName(name string) { c.set("name", name) }
func (c *ResourceCriteria) AddFilterResourceKey(key string) { c.set("resourceKey", key) }
func (c *ResourceCriteria) AddFilterDescription(desc string) { c.set("description", desc) }
func (c *ResourceCriteria) AddFilterVersion(version string) { c.set("version", version) }
func (c *ResourceCriteria) AddFilterResourceTypeID(id int) { c.set("resourceTypeId", id) }
func (c *ResourceCriteria) AddFilterParentResourceID(id int) { c.set("parentResourceId", id) }
func (c *ResourceCriteria) AddFilterAgentID(id int) { c.set("agentId", id) }
func (c *ResourceCriteria) AddFilterResourceTypeName(n string) { c.set("resourceTypeName", n) }
func (c *ResourceCriteria) AddFilterPluginName(name string) { c.set("pluginName", name) }
func (c *ResourceCriteria) AddFilterParentResourceName(n string) {
	c.set("parentResourceName", n)
}
func (c *ResourceCriteria) AddFilterAgentName(name string) { c.set("agentName", name) }
func (c *ResourceCriteria) AddFilterExplicitGroupIDs(ids ...int) { c.set("explicitGroupIds", ids) }

// AddFilterInventoryStatus replaces the default COMMITTED status filter.
func (c *ResourceCriteria) AddFilterInventoryStatus(status model.InventoryStatus) {
	c.set("inventoryStatus", string(status))
}

func (c *ResourceCriteria) AddFilterCurrentAvailability(avail model.AvailabilityType) {
	c.set("currentAvailability", string(avail))
}

func (c *ResourceCriteria) AddFilterResourceCategories(categories ...model.ResourceCategory) {
	values := make([]string, len(categories))
	for i, category := range categories {
		values[i] = string(category)
	}
	c.set("resourceCategories", values)
}

func (c *ResourceCriteria) FetchResourceType(fetch bool) { c.fetch("resourceType", fetch) }
func (c *ResourceCriteria) FetchParentResource(fetch bool) { c.fetch("parentResource", fetch) }
func (c *ResourceCriteria) FetchChildResources(fetch bool) { c.fetch("childResources", fetch) }
func (c *ResourceCriteria) FetchAgent(fetch bool) { c.fetch("agent", fetch) }
func (c *ResourceCriteria) FetchExplicitGroups(fetch bool) { c.fetch("explicitGroups", fetch) }

func (c *ResourceCriteria) AddSortName(o model.PageOrdering) { c.sortBy("name", o) }
func (c *ResourceCriteria) AddSortResourceKey(o model.PageOrdering) { c.sortBy("resourceKey", o) }
func (c *ResourceCriteria) AddSortInventoryStatus(o model.PageOrdering) { c.sortBy("inventoryStatus", o) }
func (c *ResourceCriteria) AddSortResourceTypeName(o model.PageOrdering) { c.sortBy("resourceTypeName", o) }
func (c *ResourceCriteria) AddSortResourceCategory(o model.PageOrdering) { c.sortBy("resourceCategory", o) }
func (c *ResourceCriteria) AddSortPluginName(o model.PageOrdering) { c.sortBy("pluginName", o) }
func (c *ResourceCriteria) AddSortAgentName(o model.PageOrdering) { c.sortBy("agentName", o) }
func (c *ResourceCriteria) AddSortCurrentAvailability(o model.PageOrdering) {
	c.sortBy("currentAvailability", o)
}

var resourceTypeSchema = newSchema("ResourceType", "rhq_resource_type", &model.ResourceType{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("name", KindString).
	filter("description", KindString).
	filter("category", KindEnum).values(model.ResourceCategoryValues()...).
	filterOn("pluginName", KindString, "plugin").
	filter("parentResourceTypeId", KindInt).
	filter("ignored", KindBool).
	fetch("parentResourceType").
	sort("name", "category").
	sortOn("pluginName", "plugin")

type ResourceTypeCriteria struct {
	Base
}

func NewResourceTypeCriteria() *ResourceTypeCriteria {
	c := &ResourceTypeCriteria{}
	c.init(resourceTypeSchema)
	return c
}

func (c *ResourceTypeCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *ResourceTypeCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *ResourceTypeCriteria) AddFilterName(name string) { c.set("name", name) }
func (c *ResourceTypeCriteria) AddFilterDescription(desc string) { c.set("description", desc) }
func (c *ResourceTypeCriteria) AddFilterPluginName(name string) { c.set("pluginName", name) }
func (c *ResourceTypeCriteria) AddFilterIgnored(ignored bool) { c.set("ignored", ignored) }
func (c *ResourceTypeCriteria) AddFilterParentResourceTypeID(id int) {
	c.set("parentResourceTypeId", id)
}
func (c *ResourceTypeCriteria) AddFilterCategory(category model.ResourceCategory) {
	c.set("category", string(category))
}

func (c *ResourceTypeCriteria) FetchParentResourceType(fetch bool) {
	c.fetch("parentResourceType", fetch)
}

func (c *ResourceTypeCriteria) AddSortName(o model.PageOrdering) { c.sortBy("name", o) }
func (c *ResourceTypeCriteria) AddSortCategory(o model.PageOrdering) { c.sortBy("category", o) }
func (c *ResourceTypeCriteria) AddSortPluginName(o model.PageOrdering) { c.sortBy("pluginName", o) }

var resourceGroupSchema = newSchema("ResourceGroup", "rhq_resource_group", &model.ResourceGroup{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("name", KindString).
	filter("description", KindString).
	filter("groupCategory", KindEnum).values(model.GroupCategoryValues()...).
	filterOn("recursive", KindBool, "is_recursive").
	filter("resourceTypeId", KindInt).
	override("resourceTypeName", KindString,
		"rhq_resource_group.resource_type_id IN (SELECT rt.id FROM rhq_resource_type rt WHERE LOWER(rt.name) LIKE ?)").
	override("explicitResourceIds", KindIntList,
		"rhq_resource_group.id IN (SELECT rgm.resource_group_id FROM rhq_resource_group_members rgm WHERE rgm.resource_id IN ?)").
	override("roleId", KindInt,
		"rhq_resource_group.id IN (SELECT rrg.resource_group_id FROM rhq_role_resource_group_map rrg WHERE rrg.role_id = ?)").
	fetch("resourceType", "explicitResources", "roles").
	sort("name", "groupCategory").
	sortOverride("resourceTypeName", "(SELECT rt.name FROM rhq_resource_type rt WHERE rt.id = rhq_resource_group.resource_type_id)").
	authorize(AuthGroup, "rhq_resource_group.id")

type ResourceGroupCriteria struct {
	Base
}

func NewResourceGroupCriteria() *ResourceGroupCriteria {
	c := &ResourceGroupCriteria{}
	c.init(resourceGroupSchema)
	return c
}

func (c *ResourceGroupCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *ResourceGroupCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *ResourceGroupCriteria) AddFilterName(name string) { c.set("name", name) }
func (c *ResourceGroupCriteria) AddFilterDescription(desc string) { c.set("description", desc) }
func (c *ResourceGroupCriteria) AddFilterRecursive(recursive bool) { c.set("recursive", recursive) }
func (c *ResourceGroupCriteria) AddFilterResourceTypeID(id int) { c.set("resourceTypeId", id) }
func (c *ResourceGroupCriteria) AddFilterRoleID(id int) { c.set("roleId", id) }
func (c *ResourceGroupCriteria) AddFilterResourceTypeName(name string) {
	c.set("resourceTypeName", name)
}
func (c *ResourceGroupCriteria) AddFilterExplicitResourceIDs(ids ...int) {
	c.set("explicitResourceIds", ids)
}
func (c *ResourceGroupCriteria) AddFilterGroupCategory(category model.GroupCategory) {
	c.set("groupCategory", string(category))
}

func (c *ResourceGroupCriteria) FetchResourceType(fetch bool) { c.fetch("resourceType", fetch) }
func (c *ResourceGroupCriteria) FetchExplicitResources(fetch bool) { c.fetch("explicitResources", fetch) }
func (c *ResourceGroupCriteria) FetchRoles(fetch bool) { c.fetch("roles", fetch) }

func (c *ResourceGroupCriteria) AddSortName(o model.PageOrdering) { c.sortBy("name", o) }
func (c *ResourceGroupCriteria) AddSortGroupCategory(o model.PageOrdering) { c.sortBy("groupCategory", o) }
func (c *ResourceGroupCriteria) AddSortResourceTypeName(o model.PageOrdering) {
	c.sortBy("resourceTypeName", o)
}

var agentSchema = newSchema("Agent", "rhq_agent", &model.Agent{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("name", KindString).
	filter("address", KindString).
	filter("port", KindInt).
	override("resourceId", KindInt,
		"rhq_agent.id IN (SELECT r.agent_id FROM rhq_resource r WHERE r.id = ?)").
	sort("name", "address", "port", "lastAvailabilityReport")

type AgentCriteria struct {
	Base
}

func NewAgentCriteria() *AgentCriteria {
	c := &AgentCriteria{}
	c.init(agentSchema)
	return c
}

func (c *AgentCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *AgentCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *AgentCriteria) AddFilterName(name string) { c.set("name", name) }
func (c *AgentCriteria) AddFilterAddress(addr string) { c.set("address", addr) }
func (c *AgentCriteria) AddFilterPort(port int) { c.set("port", port) }
func (c *AgentCriteria) AddFilterResourceID(id int) { c.set("resourceId", id) }
func (c *AgentCriteria) AddSortName(o model.PageOrdering) { c.sortBy("name", o) }
func (c *AgentCriteria) AddSortLastAvailabilityReport(o model.PageOrdering) {
	c.sortBy("lastAvailabilityReport", o)
}
