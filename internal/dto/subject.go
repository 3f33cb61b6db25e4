package dto

import (
	"time"

	"github.com/rhq-project/rhq-coregui/internal/model"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	SessionID string          `json:"session_id"`
	ExpiresAt time.Time       `json:"expires_at"`
	Subject   SubjectResponse `json:"subject"`
}

// SubjectResponse is a subject as clients see it, never with credentials.
type SubjectResponse struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	EmailAddress string         `json:"email_address"`
	PhoneNumber  string         `json:"phone_number,omitempty"`
	Department   string         `json:"department,omitempty"`
	Factive      bool           `json:"factive"`
	Fsystem      bool           `json:"fsystem"`
	Roles        []RoleResponse `json:"roles,omitempty"`
}

func NewSubjectResponse(s model.Subject) SubjectResponse {
	resp := SubjectResponse{
		ID:           s.ID,
		Name:         s.Name,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		EmailAddress: s.EmailAddress,
		PhoneNumber:  s.PhoneNumber,
		Department:   s.Department,
		Factive:      s.Factive,
		Fsystem:      s.Fsystem,
	}
	for _, r := range s.Roles {
		resp.Roles = append(resp.Roles, NewRoleResponse(r))
	}
	return resp
}

type SubjectRequest struct {
	ID           int    `json:"id"`
	Name         string `json:"name" binding:"required,max=100"`
	FirstName    string `json:"first_name" binding:"max=100"`
	LastName     string `json:"last_name" binding:"max=100"`
	EmailAddress string `json:"email_address" binding:"omitempty,email"`
	PhoneNumber  string `json:"phone_number" binding:"max=100"`
	Department   string `json:"department" binding:"max=100"`
	Factive      *bool  `json:"factive"`
}

// Model builds the subject entity. An omitted active flag means active.
func (r SubjectRequest) Model() *model.Subject {
	active := true
	if r.Factive != nil {
		active = *r.Factive
	}
	return &model.Subject{
		ID:           r.ID,
		Name:         r.Name,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		EmailAddress: r.EmailAddress,
		PhoneNumber:  r.PhoneNumber,
		Department:   r.Department,
		Factive:      active,
	}
}

type CreateSubjectRequest struct {
	Subject  SubjectRequest `json:"subject"`
	Password string         `json:"password" binding:"required,min=6,max=100"`
	RoleIDs  []int          `json:"role_ids"`
}

type UpdateSubjectRequest struct {
	Subject SubjectRequest `json:"subject"`
}

type ChangePasswordRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

type RoleResponse struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Fsystem     bool               `json:"fsystem"`
	Permissions []model.Permission `json:"permissions,omitempty"`
	SubjectIDs  []int              `json:"subject_ids,omitempty"`
	GroupIDs    []int              `json:"resource_group_ids,omitempty"`
}

func NewRoleResponse(r model.Role) RoleResponse {
	resp := RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Fsystem:     r.Fsystem,
	}
	if len(r.Permissions) > 0 {
		resp.Permissions = r.PermissionSet()
	}
	for _, s := range r.Subjects {
		resp.SubjectIDs = append(resp.SubjectIDs, s.ID)
	}
	for _, g := range r.ResourceGroups {
		resp.GroupIDs = append(resp.GroupIDs, g.ID)
	}
	return resp
}

type RoleRequest struct {
	ID          int                `json:"id"`
	Name        string             `json:"name" binding:"required,max=100"`
	Description string             `json:"description" binding:"max=100"`
	Permissions []model.Permission `json:"permissions"`
}

func (r RoleRequest) Model() *model.Role {
	role := &model.Role{ID: r.ID, Name: r.Name, Description: r.Description}
	for _, p := range r.Permissions {
		role.Permissions = append(role.Permissions, model.RolePermission{RoleID: r.ID, Operation: p})
	}
	return role
}

type SaveRoleRequest struct {
	Role RoleRequest `json:"role"`
}

// AssignRequest replaces the members of one role.
type AssignRequest struct {
	RoleID int   `json:"role_id" binding:"required,gt=0"`
	IDs    []int `json:"ids"`
}

type ResourcePermissionsRequest struct {
	ResourceID int `json:"resource_id" binding:"required,gt=0"`
}

type PermissionsResponse struct {
	Permissions []model.Permission `json:"permissions"`
}

type SuperuserResponse struct {
	Superuser bool `json:"superuser"`
}
