package db

import (
	"os"
	"testing"
)

func TestOpen_InvalidDSN(t *testing.T) {
	for _, dsn := range []string{"", "invalid-dsn", "postgres://"} {
		conn, err := Open(dsn)
		if err == nil {
			if conn != nil {
				conn.Close()
			}
			t.Errorf("Open(%q) should return error", dsn)
			continue
		}
		if conn != nil {
			t.Errorf("Open(%q) should return nil db on error", dsn)
		}
	}
}

func TestOpen_Success(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	conn, err := Open(dsn)
	if err != nil {
		t.Skipf("database connection failed: %v", err)
	}
	defer conn.Close()

	var result int
	if err := conn.QueryRow("SELECT 1").Scan(&result); err != nil || result != 1 {
		t.Errorf("SELECT 1 = %d, %v", result, err)
	}
}
