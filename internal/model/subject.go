package model

// Subject is a user of the system.
type Subject struct {
	ID           int    `gorm:"column:id;primaryKey" json:"id"`
	Name         string `gorm:"column:name;type:varchar(100);not null;uniqueIndex:idx_rhq_subject_name" json:"name"`
	FirstName    string `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	EmailAddress string `gorm:"column:email_address;type:varchar(100)" json:"email_address"`
	PhoneNumber  string `gorm:"column:phone_number;type:varchar(100)" json:"phone_number,omitempty"`
	Department   string `gorm:"column:department;type:varchar(100)" json:"department,omitempty"`
	Factive      bool   `gorm:"column:factive;default:true" json:"factive"`
	Fsystem      bool   `gorm:"column:fsystem;default:false" json:"fsystem"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(100)" json:"-"`
	Roles        []Role `gorm:"many2many:rhq_subject_role_map;joinForeignKey:SubjectID;joinReferences:RoleID" json:"roles,omitempty"`
}

func (Subject) TableName() string { return "rhq_subject" }

// Role grants permissions to its subjects, on its resource groups for resource permissions.
type Role struct {
	ID             int              `gorm:"column:id;primaryKey" json:"id"`
	Name           string           `gorm:"column:name;type:varchar(100);not null;uniqueIndex:idx_rhq_role_name" json:"name"`
	Description    string           `gorm:"column:description;type:varchar(100)" json:"description"`
	Fsystem        bool             `gorm:"column:fsystem;default:false" json:"fsystem"`
	Permissions    []RolePermission `gorm:"foreignKey:RoleID" json:"permissions,omitempty"`
	Subjects       []Subject        `gorm:"many2many:rhq_subject_role_map;joinForeignKey:RoleID;joinReferences:SubjectID" json:"subjects,omitempty"`
	ResourceGroups []ResourceGroup  `gorm:"many2many:rhq_role_resource_group_map;joinForeignKey:RoleID;joinReferences:ResourceGroupID" json:"resource_groups,omitempty"`
}

func (Role) TableName() string { return "rhq_role" }

// PermissionSet returns the operations granted by the role.
func (r Role) PermissionSet() []Permission {
	perms := make([]Permission, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, p.Operation)
	}
	return perms
}

type RolePermission struct {
	RoleID    int        `gorm:"column:role_id;primaryKey" json:"-"`
	Operation Permission `gorm:"column:operation;type:varchar(30);primaryKey" json:"operation"`
}

func (RolePermission) TableName() string { return "rhq_permission" }
