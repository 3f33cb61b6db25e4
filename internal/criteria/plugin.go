package criteria

import "github.com/rhq-project/rhq-coregui/internal/model"

var pluginSchema = newSchema("Plugin", "rhq_plugin", &model.Plugin{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("name", KindString).
	filter("displayName", KindString).
	filter("version", KindString).
	filter("enabled", KindBool).
	filter("deployment", KindEnum).values(model.PluginDeploymentTypeValues()...).
	filter("status", KindEnum).values(model.PluginStatusValues()...).
	sort("name", "displayName", "ctime")

// PluginCriteria selects plugins. Deleted plugins are hidden unless the
// status filter is changed or cleared.
type PluginCriteria struct {
	Base
}

func NewPluginCriteria() *PluginCriteria {
	c := &PluginCriteria{}
	c.init(pluginSchema)
	c.set("status", string(model.PluginStatusInstalled))
	return c
}

func (c *PluginCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *PluginCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *PluginCriteria) AddFilterName(name string) { c.set("name", name) }
func (c *PluginCriteria) AddFilterDisplayName(name string) { c.set("displayName", name) }
func (c *PluginCriteria) AddFilterVersion(version string) { c.set("version", version) }
func (c *PluginCriteria) AddFilterEnabled(enabled bool) { c.set("enabled", enabled) }

func (c *PluginCriteria) AddFilterDeployment(d model.PluginDeploymentType) {
	c.set("deployment", string(d))
}

func (c *PluginCriteria) AddFilterStatus(status model.PluginStatus) {
	c.set("status", string(status))
}

func (c *PluginCriteria) AddSortName(o model.PageOrdering) { c.sortBy("name", o) }
func (c *PluginCriteria) AddSortDisplayName(o model.PageOrdering) { c.sortBy("displayName", o) }
func (c *PluginCriteria) AddSortCtime(o model.PageOrdering) { c.sortBy("ctime", o) }
