package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// link describes a many-to-many join table from the owning side.
type link struct {
	table       string
	ownerColumn string
	otherColumn string
}

var (
	subjectRoles   = link{table: "rhq_subject_role_map", ownerColumn: "subject_id", otherColumn: "role_id"}
	roleSubjects   = link{table: "rhq_subject_role_map", ownerColumn: "role_id", otherColumn: "subject_id"}
	roleGroups     = link{table: "rhq_role_resource_group_map", ownerColumn: "role_id", otherColumn: "resource_group_id"}
	groupRoles     = link{table: "rhq_role_resource_group_map", ownerColumn: "resource_group_id", otherColumn: "role_id"}
	groupResources = link{table: "rhq_resource_group_members", ownerColumn: "resource_group_id", otherColumn: "resource_id"}
	resourceGroups = link{table: "rhq_resource_group_members", ownerColumn: "resource_id", otherColumn: "resource_group_id"}
)

// replace makes otherIDs the complete set of rows linked to ownerID.
func (l link) replace(tx *gorm.DB, ownerID int, otherIDs []int) error {
	if err := l.clear(tx, ownerID); err != nil {
		return err
	}
	if len(otherIDs) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(otherIDs))
	rows := make([]map[string]any, 0, len(otherIDs))
	for _, id := range otherIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, map[string]any{l.ownerColumn: ownerID, l.otherColumn: id})
	}
	if err := tx.Table(l.table).Create(&rows).Error; err != nil {
		return fmt.Errorf("link %s: %w", l.table, err)
	}
	return nil
}

// clear removes every row linked to the given owners.
func (l link) clear(tx *gorm.DB, ownerIDs ...int) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", l.table, l.ownerColumn)
	if err := tx.Exec(sql, ownerIDs).Error; err != nil {
		return fmt.Errorf("unlink %s: %w", l.table, err)
	}
	return nil
}
