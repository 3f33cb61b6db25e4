package handler

import (
	"context"

	"github.com/rhq-project/rhq-coregui/internal/criteria"
	"github.com/rhq-project/rhq-coregui/internal/dto"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/internal/service"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
)

type SubjectManager interface {
	Login(ctx context.Context, name, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, token string) error
	FindSubjectsByCriteria(ctx context.Context, subject *model.Subject, c *criteria.SubjectCriteria) (*model.PageList[model.Subject], error)
	GetSubject(ctx context.Context, subject *model.Subject, id int) (*model.Subject, error)
	CreateSubject(ctx context.Context, subject *model.Subject, newSubject *model.Subject, password string, roleIDs []int) (*model.Subject, error)
	UpdateSubject(ctx context.Context, subject *model.Subject, update *model.Subject) (*model.Subject, error)
	DeleteSubjects(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
	ChangePassword(ctx context.Context, subject *model.Subject, name, password string) error
}

// SubjectService logs subjects in and out and maintains subjects.
type SubjectService struct {
	manager     SubjectManager
	maxPageSize int
}

func NewSubjectService(manager SubjectManager, maxPageSize int) *SubjectService {
	return &SubjectService{manager: manager, maxPageSize: maxPageSize}
}

func (s *SubjectService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("SubjectService",
		rpc.Method{Name: "login", Public: true, Handler: rpc.Handle(s.login)},
		rpc.Method{Name: "logout", Public: true, Handler: rpc.Handle(s.logout)},
		rpc.Method{Name: "getSessionSubject", Handler: authed(s.sessionSubject)},
		rpc.Method{Name: "findSubjectsByCriteria", Handler: findMapped(s.maxPageSize, criteria.NewSubjectCriteria,
			s.manager.FindSubjectsByCriteria, dto.NewSubjectResponse)},
		rpc.Method{Name: "getSubject", Handler: authed(s.getSubject)},
		rpc.Method{Name: "createSubject", Handler: authed(s.createSubject)},
		rpc.Method{Name: "updateSubject", Handler: authed(s.updateSubject)},
		rpc.Method{Name: "deleteSubjects", Handler: bulk(s.manager.DeleteSubjects)},
		rpc.Method{Name: "changePassword", Handler: authed(s.changePassword)},
	)
}

func (s *SubjectService) login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	result, err := s.manager.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		SessionID: result.Token,
		ExpiresAt: result.ExpiresAt,
		Subject:   dto.NewSubjectResponse(*result.Subject),
	}, nil
}

// logout ends the presented session. Logging out without a session is a
// no-op.
func (s *SubjectService) logout(ctx context.Context, _ *struct{}) (*struct{}, error) {
	token := ctxutil.GetSessionToken(ctx)
	if token == "" {
		return &struct{}{}, nil
	}
	if err := s.manager.Logout(ctx, token); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *SubjectService) sessionSubject(_ context.Context, subject *model.Subject, _ *struct{}) (*dto.SubjectResponse, error) {
	resp := dto.NewSubjectResponse(*subject)
	return &resp, nil
}

func (s *SubjectService) getSubject(ctx context.Context, subject *model.Subject, req *dto.IDRequest) (*dto.SubjectResponse, error) {
	found, err := s.manager.GetSubject(ctx, subject, req.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSubjectResponse(*found)
	return &resp, nil
}

func (s *SubjectService) createSubject(ctx context.Context, subject *model.Subject, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	created, err := s.manager.CreateSubject(ctx, subject, req.Subject.Model(), req.Password, req.RoleIDs)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSubjectResponse(*created)
	return &resp, nil
}

// updateSubject keeps the current active flag when the request omits it.
func (s *SubjectService) updateSubject(ctx context.Context, subject *model.Subject, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	if req.Subject.ID <= 0 {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "subject id is required")
	}
	update := req.Subject.Model()
	if req.Subject.Factive == nil {
		current, err := s.manager.GetSubject(ctx, subject, req.Subject.ID)
		if err != nil {
			return nil, err
		}
		update.Factive = current.Factive
	}

	updated, err := s.manager.UpdateSubject(ctx, subject, update)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSubjectResponse(*updated)
	return &resp, nil
}

func (s *SubjectService) changePassword(ctx context.Context, subject *model.Subject, req *dto.ChangePasswordRequest) (*struct{}, error) {
	if err := s.manager.ChangePassword(ctx, subject, req.Username, req.Password); err != nil {
		return nil, err
	}
	logger.InfoWithContext(ctx, "Password changed").
		String("target", req.Username).
		Log()
	return &struct{}{}, nil
}

type RoleManager interface {
	FindRolesByCriteria(ctx context.Context, subject *model.Subject, c *criteria.RoleCriteria) (*model.PageList[model.Role], error)
	GetRole(ctx context.Context, subject *model.Subject, id int) (*model.Role, error)
	CreateRole(ctx context.Context, subject *model.Subject, role *model.Role) (*model.Role, error)
	UpdateRole(ctx context.Context, subject *model.Subject, role *model.Role) (*model.Role, error)
	DeleteRoles(ctx context.Context, subject *model.Subject, ids []int) (int64, error)
	SetAssignedSubjects(ctx context.Context, subject *model.Subject, roleID int, subjectIDs []int) error
	SetAssignedResourceGroups(ctx context.Context, subject *model.Subject, roleID int, groupIDs []int) error
}

type RoleService struct {
	manager     RoleManager
	maxPageSize int
}

func NewRoleService(manager RoleManager, maxPageSize int) *RoleService {
	return &RoleService{manager: manager, maxPageSize: maxPageSize}
}

func (s *RoleService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("RoleService",
		rpc.Method{Name: "findRolesByCriteria", Handler: findMapped(s.maxPageSize, criteria.NewRoleCriteria,
			s.manager.FindRolesByCriteria, dto.NewRoleResponse)},
		rpc.Method{Name: "getRole", Handler: authed(s.getRole)},
		rpc.Method{Name: "createRole", Handler: authed(s.createRole)},
		rpc.Method{Name: "updateRole", Handler: authed(s.updateRole)},
		rpc.Method{Name: "deleteRoles", Handler: bulk(s.manager.DeleteRoles)},
		rpc.Method{Name: "setAssignedSubjects", Handler: authed(s.assign(s.manager.SetAssignedSubjects))},
		rpc.Method{Name: "setAssignedResourceGroups", Handler: authed(s.assign(s.manager.SetAssignedResourceGroups))},
	)
}

func (s *RoleService) getRole(ctx context.Context, subject *model.Subject, req *dto.IDRequest) (*dto.RoleResponse, error) {
	role, err := s.manager.GetRole(ctx, subject, req.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewRoleResponse(*role)
	return &resp, nil
}

func (s *RoleService) createRole(ctx context.Context, subject *model.Subject, req *dto.SaveRoleRequest) (*dto.RoleResponse, error) {
	role, err := s.manager.CreateRole(ctx, subject, req.Role.Model())
	if err != nil {
		return nil, err
	}
	resp := dto.NewRoleResponse(*role)
	return &resp, nil
}

func (s *RoleService) updateRole(ctx context.Context, subject *model.Subject, req *dto.SaveRoleRequest) (*dto.RoleResponse, error) {
	if req.Role.ID <= 0 {
		return nil, apperrors.Detail(apperrors.ErrInvalidInput, "role id is required")
	}
	role, err := s.manager.UpdateRole(ctx, subject, req.Role.Model())
	if err != nil {
		return nil, err
	}
	resp := dto.NewRoleResponse(*role)
	return &resp, nil
}

func (s *RoleService) assign(fn func(context.Context, *model.Subject, int, []int) error) func(context.Context, *model.Subject, *dto.AssignRequest) (*struct{}, error) {
	return func(ctx context.Context, subject *model.Subject, req *dto.AssignRequest) (*struct{}, error) {
		if err := fn(ctx, subject, req.RoleID, req.IDs); err != nil {
			return nil, err
		}
		return &struct{}{}, nil
	}
}

type AuthorizationManager interface {
	IsSuperuser(ctx context.Context, subject *model.Subject) (bool, error)
	GetExplicitGlobalPermissions(ctx context.Context, subject *model.Subject) ([]model.Permission, error)
	GetImplicitResourcePermissions(ctx context.Context, subject *model.Subject, resourceID int) ([]model.Permission, error)
}

// AuthorizationService answers permission questions about the caller.
type AuthorizationService struct {
	manager AuthorizationManager
}

func NewAuthorizationService(manager AuthorizationManager) *AuthorizationService {
	return &AuthorizationService{manager: manager}
}

func (s *AuthorizationService) Register(d *rpc.Dispatcher) error {
	return d.RegisterService("AuthorizationService",
		rpc.Method{Name: "getExplicitGlobalPermissions", Handler: authed(s.globalPermissions)},
		rpc.Method{Name: "getImplicitResourcePermissions", Handler: authed(s.resourcePermissions)},
		rpc.Method{Name: "isSuperuser", Handler: authed(s.isSuperuser)},
	)
}

func (s *AuthorizationService) globalPermissions(ctx context.Context, subject *model.Subject, _ *struct{}) (*dto.PermissionsResponse, error) {
	perms, err := s.manager.GetExplicitGlobalPermissions(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &dto.PermissionsResponse{Permissions: nonNil(perms)}, nil
}

func (s *AuthorizationService) resourcePermissions(ctx context.Context, subject *model.Subject, req *dto.ResourcePermissionsRequest) (*dto.PermissionsResponse, error) {
	perms, err := s.manager.GetImplicitResourcePermissions(ctx, subject, req.ResourceID)
	if err != nil {
		return nil, err
	}
	return &dto.PermissionsResponse{Permissions: nonNil(perms)}, nil
}

func (s *AuthorizationService) isSuperuser(ctx context.Context, subject *model.Subject, _ *struct{}) (*dto.SuperuserResponse, error) {
	superuser, err := s.manager.IsSuperuser(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &dto.SuperuserResponse{Superuser: superuser}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
