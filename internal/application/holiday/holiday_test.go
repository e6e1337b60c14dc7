package holiday

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMonth(t *testing.T) {
	tbl := Default()

	if got := tbl.Month(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)); got == nil || len(got) != 0 {
		t.Fatalf("April 2024 = %v, want empty map", got)
	}

	got := tbl.Month(time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC))
	want := map[string]string{"2024-09-16": "추석", "2024-09-17": "추석", "2024-09-18": "추석"}
	if len(got) != len(want) {
		t.Fatalf("September 2024 = %v", got)
	}
	for d, name := range want {
		if got[d] != name {
			t.Fatalf("%s = %q, want %q", d, got[d], name)
		}
	}
}

func TestMerge(t *testing.T) {
	merged := Merge(Table{"2024-01-01": "a", "2024-01-02": "b"}, Table{"2024-01-02": "c"})
	if merged["2024-01-01"] != "a" || merged["2024-01-02"] != "c" {
		t.Fatalf("Merge = %v", merged)
	}
	if d := merged.Dates(); len(d) != 2 || d[0] != "2024-01-01" {
		t.Fatalf("Dates = %v", d)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "holidays.yaml")
	if err := os.WriteFile(path, []byte("holidays:\n  \"2024-04-10\": 국회의원 선거\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl["2024-04-10"] != "국회의원 선거" {
		t.Fatalf("LoadYAML = %v", tbl)
	}

	missing, err := LoadYAML(filepath.Join(dir, "nope.yaml"))
	if err != nil || len(missing) != 0 {
		t.Fatalf("missing file = %v, %v", missing, err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("holidays:\n  \"2024-13-10\": x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadYAML(bad); err == nil {
		t.Fatal("expected error for invalid date")
	}
}
