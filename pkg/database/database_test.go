package database

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		sqlDB.Close()
	})
	return db, mock
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		d, err := Dialector(driver, "dsn")
		if err != nil {
			t.Fatalf("Dialector(%q) error = %v", driver, err)
		}
		if d.Name() != driver {
			t.Errorf("expected %s dialector, got %s", driver, d.Name())
		}
	}
	if _, err := Dialector("sqlite", "dsn"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestSystemRoles(t *testing.T) {
	roles := SystemRoles()
	if len(roles) != 2 {
		t.Fatalf("expected 2 system roles, got %d", len(roles))
	}

	superUser := roles[0]
	if superUser.ID != constants.SuperUserRoleID || !superUser.Fsystem {
		t.Errorf("unexpected super user role %+v", superUser)
	}
	if len(superUser.Permissions) != len(model.AllPermissions()) {
		t.Errorf("super user role should hold every permission, has %d", len(superUser.Permissions))
	}

	for _, p := range roles[1].PermissionSet() {
		if p == model.PermissionManageSecurity {
			t.Error("all resources role must not grant MANAGE_SECURITY")
		}
	}
	for _, rp := range roles[1].Permissions {
		if rp.RoleID != constants.AllResourcesRole {
			t.Errorf("permission row bound to role %d", rp.RoleID)
		}
	}
}

func TestCreateIndexes(t *testing.T) {
	db, mock := newMockDB(t)

	for i, idx := range Indexes() {
		count := 0
		if i == 0 {
			count = 1
		}
		mock.ExpectQuery("pg_indexes").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
		if count == 1 {
			continue
		}

		exec := mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX " + idx.Name + " ON " + idx.Table))
		if i == 1 {
			exec.WillReturnError(gorm.ErrInvalidDB)
		} else {
			exec.WillReturnResult(sqlmock.NewResult(0, 0))
		}
	}

	if created := CreateIndexes(db); created != len(Indexes())-2 {
		t.Errorf("expected %d created indexes, got %d", len(Indexes())-2, created)
	}
}
