package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB opens a session that renders SQL without touching a database.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run session: %v", err)
	}
	return db
}

func captureUpdateSQL(t *testing.T, db *gorm.DB) *[]string {
	t.Helper()
	var captured []string
	err := db.Callback().Update().After("gorm:update").Register("capture_update_sql", func(tx *gorm.DB) {
		captured = append(captured, tx.Statement.SQL.String())
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}
	return &captured
}

func TestAcknowledgeSkipsResolvedAlerts(t *testing.T) {
	db := dryRunDB(t)
	captured := captureUpdateSQL(t, db)

	repo := &AlertRepository{db: &DB{DB: db}}
	_ = repo.Acknowledge(context.Background(), uuid.New(), time.Now())

	if len(*captured) == 0 {
		t.Fatal("expected an update statement")
	}
	sql := (*captured)[0]
	if !strings.Contains(sql, "acknowledged_at IS NULL") {
		t.Errorf("acknowledge must skip already-acknowledged alerts, got: %s", sql)
	}
	if !strings.Contains(sql, "resolved_at IS NULL") {
		t.Errorf("acknowledge must not touch resolved alerts, got: %s", sql)
	}
}

func TestResolveSkipsResolvedAlerts(t *testing.T) {
	db := dryRunDB(t)
	captured := captureUpdateSQL(t, db)

	repo := &AlertRepository{db: &DB{DB: db}}
	_ = repo.Resolve(context.Background(), uuid.New(), time.Now(), uuid.New(), "handled")

	if len(*captured) == 0 {
		t.Fatal("expected an update statement")
	}
	if sql := (*captured)[0]; !strings.Contains(sql, "resolved_at IS NULL") {
		t.Errorf("resolve must keep the first resolution, got: %s", sql)
	}
}
