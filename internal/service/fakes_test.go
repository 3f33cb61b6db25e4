package service

import (
	"context"
	"sort"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/internal/repository"
	"gorm.io/gorm"
)

// fakeAuthStore grants global permissions per subject and resource
// permissions per subject and resource.
type fakeAuthStore struct {
	global   map[int][]model.Permission
	resource map[int]map[int][]model.Permission
	groups   map[int][]int
	roles    map[int][]int
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		global:   make(map[int][]model.Permission),
		resource: make(map[int]map[int][]model.Permission),
		groups:   make(map[int][]int),
		roles:    make(map[int][]int),
	}
}

func (f *fakeAuthStore) grant(subjectID, resourceID int, perms ...model.Permission) {
	if f.resource[subjectID] == nil {
		f.resource[subjectID] = make(map[int][]model.Permission)
	}
	f.resource[subjectID][resourceID] = append(f.resource[subjectID][resourceID], perms...)
}

func (f *fakeAuthStore) GlobalPermissions(_ context.Context, subjectID int) ([]model.Permission, error) {
	return f.global[subjectID], nil
}

func (f *fakeAuthStore) ResourcePermissions(_ context.Context, subjectID, resourceID int) ([]model.Permission, error) {
	return f.resource[subjectID][resourceID], nil
}

func (f *fakeAuthStore) CountPermittedResources(_ context.Context, subjectID int, perm model.Permission, resourceIDs []int) (int64, error) {
	var count int64
	for _, id := range resourceIDs {
		for _, p := range f.resource[subjectID][id] {
			if p == perm {
				count++
				break
			}
		}
	}
	return count, nil
}

func (f *fakeAuthStore) CountViewableResources(_ context.Context, subjectID int, resourceIDs []int) (int64, error) {
	var count int64
	for _, id := range resourceIDs {
		if _, ok := f.resource[subjectID][id]; ok {
			count++
		}
	}
	return count, nil
}

func (f *fakeAuthStore) CanViewGroup(_ context.Context, subjectID, groupID int) (bool, error) {
	return containsID(f.groups[subjectID], groupID), nil
}

func (f *fakeAuthStore) HasRole(_ context.Context, subjectID, roleID int) (bool, error) {
	return containsID(f.roles[subjectID], roleID), nil
}

// fakeSubjectStore keeps subjects in memory.
type fakeSubjectStore struct {
	SubjectStore
	subjects map[int]*model.Subject
	roles    map[int][]int
	nextID   int
	lastFind criteria.Criteria
	scope    int
}

func newFakeSubjectStore(subjects ...*model.Subject) *fakeSubjectStore {
	f := &fakeSubjectStore{subjects: make(map[int]*model.Subject), roles: make(map[int][]int), nextID: 100}
	for _, s := range subjects {
		f.subjects[s.ID] = s
	}
	return f
}

func (f *fakeSubjectStore) FindByCriteria(_ context.Context, c criteria.Criteria, subjectID int) (*model.PageList[model.Subject], error) {
	f.lastFind = c
	f.scope = subjectID
	var items []model.Subject
	for _, s := range f.subjects {
		items = append(items, *s)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return model.NewPageList(items, int64(len(items)), c.PageControl()), nil
}

func (f *fakeSubjectStore) GetByID(_ context.Context, id int, _ ...string) (*model.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSubjectStore) GetByName(_ context.Context, name string) (*model.Subject, error) {
	for _, s := range f.subjects {
		if s.Name == name {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubjectStore) Create(_ context.Context, subject *model.Subject) error {
	f.nextID++
	subject.ID = f.nextID
	copied := *subject
	f.subjects[subject.ID] = &copied
	return nil
}

func (f *fakeSubjectStore) Save(_ context.Context, subject *model.Subject) error {
	copied := *subject
	f.subjects[subject.ID] = &copied
	return nil
}

func (f *fakeSubjectStore) SetPasswordHash(_ context.Context, id int, hash string) error {
	f.subjects[id].PasswordHash = hash
	return nil
}

func (f *fakeSubjectStore) SetRoles(_ context.Context, subjectID int, roleIDs []int) error {
	f.roles[subjectID] = roleIDs
	return nil
}

func (f *fakeSubjectStore) Delete(_ context.Context, ids []int) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.subjects[id]; ok {
			delete(f.subjects, id)
			n++
		}
	}
	return n, nil
}

type fakeRoleStore struct {
	RoleStore
	roles    map[int]*model.Role
	subjects map[int][]int
	groups   map[int][]int
}

func newFakeRoleStore(roles ...*model.Role) *fakeRoleStore {
	f := &fakeRoleStore{roles: make(map[int]*model.Role), subjects: make(map[int][]int), groups: make(map[int][]int)}
	for _, r := range roles {
		f.roles[r.ID] = r
	}
	return f
}

func (f *fakeRoleStore) GetByID(_ context.Context, id int, _ ...string) (*model.Role, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRoleStore) CreateWithPermissions(_ context.Context, role *model.Role) error {
	role.ID = len(f.roles) + 10
	f.roles[role.ID] = role
	return nil
}

func (f *fakeRoleStore) UpdateWithPermissions(_ context.Context, role *model.Role) error {
	f.roles[role.ID] = role
	return nil
}

func (f *fakeRoleStore) SetSubjects(_ context.Context, roleID int, subjectIDs []int) error {
	f.subjects[roleID] = subjectIDs
	return nil
}

func (f *fakeRoleStore) SetResourceGroups(_ context.Context, roleID int, groupIDs []int) error {
	f.groups[roleID] = groupIDs
	return nil
}

type fakeResourceStore struct {
	ResourceStore
	resources map[int]*model.Resource
	scope     int
}

func newFakeResourceStore(resources ...*model.Resource) *fakeResourceStore {
	f := &fakeResourceStore{resources: make(map[int]*model.Resource), scope: -1}
	for _, r := range resources {
		f.resources[r.ID] = r
	}
	return f
}

func (f *fakeResourceStore) FindByCriteria(_ context.Context, c criteria.Criteria, subjectID int) (*model.PageList[model.Resource], error) {
	f.scope = subjectID
	return model.NewPageList[model.Resource](nil, 0, c.PageControl()), nil
}

func (f *fakeResourceStore) GetByID(_ context.Context, id int, _ ...string) (*model.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeResourceStore) Save(_ context.Context, resource *model.Resource) error {
	copied := *resource
	f.resources[resource.ID] = &copied
	return nil
}

func (f *fakeResourceStore) CountExisting(_ context.Context, ids []int) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.resources[id]; ok {
			n++
		}
	}
	return n, nil
}

func (f *fakeResourceStore) DistinctColumn(_ context.Context, ids []int, column string) ([]int, error) {
	seen := make(map[int]bool)
	var out []int
	for _, id := range ids {
		r, ok := f.resources[id]
		if !ok {
			continue
		}
		v := r.ResourceTypeID
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out, nil
}

type fakeGroupStore struct {
	ResourceGroupStore
	groups  map[int]*model.ResourceGroup
	members map[int][]int
}

func (f *fakeGroupStore) GetByID(_ context.Context, id int, _ ...string) (*model.ResourceGroup, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGroupStore) SetMembers(_ context.Context, group *model.ResourceGroup, resourceIDs []int) error {
	f.members[group.ID] = resourceIDs
	copied := *group
	f.groups[group.ID] = &copied
	return nil
}

type fakeAvailabilityStore struct {
	AvailabilityStore
	current map[int]*model.Availability
}

func (f *fakeAvailabilityStore) Current(_ context.Context, resourceID int) (*model.Availability, error) {
	a, ok := f.current[resourceID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

type fakeAlertDefinitionStore struct {
	AlertDefinitionStore
	resourceIDs []int
	updated     map[string]any
}

func (f *fakeAlertDefinitionStore) DistinctColumn(_ context.Context, _ []int, _ string) ([]int, error) {
	return f.resourceIDs, nil
}

func (f *fakeAlertDefinitionStore) UpdateColumns(_ context.Context, ids []int, values map[string]any) (int64, error) {
	f.updated = values
	return int64(len(ids)), nil
}

type fakeAlertStore struct {
	AlertStore
	resourceIDs []int
	ackedBy     string
	ackedAt     int64
}

func (f *fakeAlertStore) ResourceIDs(_ context.Context, _ []int) ([]int, error) {
	return f.resourceIDs, nil
}

func (f *fakeAlertStore) Acknowledge(_ context.Context, ids []int, subject string, at int64) (int64, error) {
	f.ackedBy = subject
	f.ackedAt = at
	return int64(len(ids)), nil
}

type fakeHistoryStore struct {
	OperationHistoryStore
	histories map[int]*model.OperationHistory
}

func (f *fakeHistoryStore) GetByID(_ context.Context, id int, _ ...string) (*model.OperationHistory, error) {
	h, ok := f.histories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return h, nil
}

func (f *fakeHistoryStore) Cancel(_ context.Context, id int, at int64) (bool, error) {
	h := f.histories[id]
	if h.Status != model.OperationStatusInProgress {
		return false, nil
	}
	h.Status = model.OperationStatusCanceled
	h.ModifiedTime = at
	return true, nil
}

type fakeEventStore struct {
	EventStore
	counts []repository.SeverityCount
	scope  int
}

func (f *fakeEventStore) CountBySeverity(_ context.Context, _ *criteria.EventCriteria, subjectID int) ([]repository.SeverityCount, error) {
	f.scope = subjectID
	return f.counts, nil
}
