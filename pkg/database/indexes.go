package database

import (
	"fmt"

	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Index is a secondary index the authorization subqueries and criteria
// finders depend on. Where applies only on postgres, which supports partial
// indexes.
type Index struct {
	Name    string
	Table   string
	Columns string
	Where   string
}

// Indexes lists the indexes GORM tags cannot express: join table reverse
// lookups and partial indexes.
func Indexes() []Index {
	return []Index{
		{Name: "idx_rhq_res_group_members_resource", Table: "rhq_resource_group_members", Columns: "resource_id, resource_group_id"},
		{Name: "idx_rhq_role_res_group_map_group", Table: "rhq_role_resource_group_map", Columns: "resource_group_id, role_id"},
		{Name: "idx_rhq_subject_role_map_role", Table: "rhq_subject_role_map", Columns: "role_id, subject_id"},
		{Name: "idx_rhq_permission_operation", Table: "rhq_permission", Columns: "operation, role_id"},
		{Name: "idx_rhq_availability_open", Table: "rhq_availability", Columns: "resource_id", Where: "end_time IS NULL"},
		{Name: "idx_rhq_alert_unacked", Table: "rhq_alert", Columns: "alert_definition_id", Where: "acknowledge_time IS NULL"},
		{Name: "idx_rhq_op_history_inprogress", Table: "rhq_operation_history", Columns: "resource_id", Where: "status = 'INPROGRESS'"},
		{Name: "idx_rhq_event_severity", Table: "rhq_event", Columns: "severity, timestamp"},
	}
}

// CreateIndexes creates the missing indexes. Failures are logged and skipped.
func CreateIndexes(db *gorm.DB) int {
	var created int
	postgres := db.Dialector.Name() == "postgres"

	for _, idx := range Indexes() {
		if db.Migrator().HasIndex(idx.Table, idx.Name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.Name, idx.Table, idx.Columns)
		if postgres && idx.Where != "" {
			sql += " WHERE " + idx.Where
		}

		if err := db.Exec(sql).Error; err != nil {
			logger.GetLogger().Warn("Failed to create index",
				zap.String("index", idx.Name),
				zap.String("table", idx.Table),
				zap.Error(err),
			)
			continue
		}
		created++
	}

	logger.GetLogger().Info("Indexes checked", zap.Int("created", created))
	return created
}
