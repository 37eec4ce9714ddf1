package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBookingsMigrationContainsSnapshotColumns(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_bookings_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no bookings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS bookings",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT",
		"rack_price",
		"customer_price_modifier",
		"fuel_price_per_liter",
		"gst_rate",
		"qst_rate",
		"CHECK (quantity_liters > 0)",
		"CHECK (status IN ('pending', 'confirmed', 'in_transit', 'delivered', 'cancelled'))",
		"CREATE INDEX IF NOT EXISTS idx_bookings_created_at",
		"DROP TABLE IF EXISTS bookings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
