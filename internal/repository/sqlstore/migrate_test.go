package sqlstore

import (
	"testing"

	"github.com/pratik-mahalle/bizlytic/migrations"
)

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)

	applied, err := RunMigrations(db, migrations.Files)
	if err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if applied == 0 {
		t.Error("RunMigrations() applied nothing on a fresh tracking table")
	}

	pending, err := PendingMigrations(db, migrations.Files)
	if err != nil {
		t.Fatalf("PendingMigrations() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("PendingMigrations() = %v, want none", pending)
	}

	again, err := RunMigrations(db, migrations.Files)
	if err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
	if again != 0 {
		t.Errorf("second RunMigrations() applied %d, want 0", again)
	}
}
