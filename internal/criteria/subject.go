package criteria

import "github.com/rhq-project/rhq-coregui/internal/model"

var subjectSchema = newSchema("Subject", "rhq_subject", &model.Subject{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("name", KindString).
	filter("firstName", KindString).
	filter("lastName", KindString).
	filter("emailAddress", KindString).
	filter("factive", KindBool).
	filter("fsystem", KindBool).
	override("roleIds", KindIntList,
		"rhq_subject.id IN (SELECT sr.subject_id FROM rhq_subject_role_map sr WHERE sr.role_id IN ?)").
	fetch("roles").
	sort("name", "firstName", "lastName", "emailAddress")

// SubjectCriteria selects subjects. System subjects are hidden unless the
// fsystem filter is changed or cleared.
type SubjectCriteria struct {
	Base
}

func NewSubjectCriteria() *SubjectCriteria {
	c := &SubjectCriteria{}
	c.init(subjectSchema)
	c.set("fsystem", false)
	return c
}

func (c *SubjectCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *SubjectCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *SubjectCriteria) AddFilterName(name string) { c.set("name", name) }
func (c *SubjectCriteria) AddFilterFirstName(name string) { c.set("firstName", name) }
func (c *SubjectCriteria) AddFilterLastName(name string) { c.set("lastName", name) }
func (c *SubjectCriteria) AddFilterEmailAddress(email string) { c.set("emailAddress", email) }
func (c *SubjectCriteria) AddFilterFactive(active bool) { c.set("factive", active) }
func (c *SubjectCriteria) AddFilterFsystem(system bool) { c.set("fsystem", system) }
func (c *SubjectCriteria) AddFilterRoleIDs(ids ...int) { c.set("roleIds", ids) }

func (c *SubjectCriteria) FetchRoles(fetch bool) { c.fetch("roles", fetch) }

func (c *SubjectCriteria) AddSortName(o model.PageOrdering) { c.sortBy("name", o) }
func (c *SubjectCriteria) AddSortFirstName(o model.PageOrdering) { c.sortBy("firstName", o) }
func (c *SubjectCriteria) AddSortLastName(o model.PageOrdering) { c.sortBy("lastName", o) }
func (c *SubjectCriteria) AddSortEmailAddress(o model.PageOrdering) { c.sortBy("emailAddress", o) }

var roleSchema = newSchema("Role", "rhq_role", &model.Role{}).
	filter("id", KindInt).
	filterOn("ids", KindIntList, "id").
	filter("name", KindString).
	filter("description", KindString).
	override("subjectId", KindInt,
		"rhq_role.id IN (SELECT sr.role_id FROM rhq_subject_role_map sr WHERE sr.subject_id = ?)").
	override("resourceGroupId", KindInt,
		"rhq_role.id IN (SELECT rrg.role_id FROM rhq_role_resource_group_map rrg WHERE rrg.resource_group_id = ?)").
	override("permission", KindEnum,
		"rhq_role.id IN (SELECT rp.role_id FROM rhq_permission rp WHERE rp.operation = ?)").
	values(model.PermissionValues()...).
	fetch("subjects", "resourceGroups", "permissions").
	sort("name")

type RoleCriteria struct {
	Base
}

func NewRoleCriteria() *RoleCriteria {
	c := &RoleCriteria{}
	c.init(roleSchema)
	return c
}

func (c *RoleCriteria) AddFilterID(id int) { c.set("id", id) }
func (c *RoleCriteria) AddFilterIDs(ids ...int) { c.set("ids", ids) }
func (c *RoleCriteria) AddFilterName(name string) { c.set("name", name) }
func (c *RoleCriteria) AddFilterDescription(desc string) { c.set("description", desc) }
func (c *RoleCriteria) AddFilterSubjectID(id int) { c.set("subjectId", id) }
func (c *RoleCriteria) AddFilterResourceGroupID(id int) { c.set("resourceGroupId", id) }

// AddFilterPermission keeps roles granting p.
func (c *RoleCriteria) AddFilterPermission(p model.Permission) { c.set("permission", string(p)) }

func (c *RoleCriteria) FetchSubjects(fetch bool) { c.fetch("subjects", fetch) }
func (c *RoleCriteria) FetchResourceGroups(fetch bool) { c.fetch("resourceGroups", fetch) }
func (c *RoleCriteria) FetchPermissions(fetch bool) { c.fetch("permissions", fetch) }

func (c *RoleCriteria) AddSortName(o model.PageOrdering) { c.sortBy("name", o) }
