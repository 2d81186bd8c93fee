package db

import (
	"strings"
	"testing"

	"github.com/kingcader/attache/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DBConfig
		want string
	}{
		{
			name: "no password",
			cfg:  config.DBConfig{Host: "127.0.0.1", Port: 3306, User: "root", Database: "attache"},
			want: "root@tcp(127.0.0.1:3306)/attache?parseTime=true&charset=utf8mb4",
		},
		{
			name: "with password",
			cfg:  config.DBConfig{Host: "db.internal", Port: 3307, User: "attache", Password: "hunter2", Database: "attache_prod"},
			want: "attache:hunter2@tcp(db.internal:3307)/attache_prod?parseTime=true&charset=utf8mb4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(tt.cfg)
			if got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDSN_ParseTimeFlag(t *testing.T) {
	dsn := DSN(config.DBConfig{Host: "localhost", Port: 3306, User: "root", Database: "x"})
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN missing parseTime=true: %s", dsn)
	}
}

func TestAllModels_Count(t *testing.T) {
	models := AllModels()
	if len(models) != 7 {
		t.Errorf("AllModels() returned %d models, want 7", len(models))
	}
}

func TestAutoMigrate_SQLite(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	for _, name := range []string{"threads", "emails", "follow_up_suggestions", "decisions", "tasks", "push_subscriptions", "notifications"} {
		if !gdb.Migrator().HasTable(name) {
			t.Errorf("table %q not created", name)
		}
	}
}

func TestConnect_Error(t *testing.T) {
	// Port 1 is unlikely to have a MySQL server; expect connection error.
	_, err := Connect(config.DBConfig{Host: "127.0.0.1", Port: 1, User: "root", Database: "nonexistent"})
	if err == nil {
		t.Fatal("expected error connecting to invalid port")
	}
	if !strings.Contains(err.Error(), "db: connect to") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db: connect to")
	}
}
