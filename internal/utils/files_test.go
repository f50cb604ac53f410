package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.md")
	if err := SafeWriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "hello" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		dir, input, suffix, want string
	}{
		{"out", "data/GDS507.soft.gz", ".report.md", filepath.Join("out", "GDS507.report.md")},
		{"", filepath.Join("data", "patients.xlsx"), ".json", filepath.Join("data", "patients.json")},
		{"out", "my data:v2.csv", ".png", filepath.Join("out", "my_data_v2.png")},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.dir, tt.input, tt.suffix); got != tt.want {
			t.Errorf("OutputPath(%q, %q, %q) = %q, want %q", tt.dir, tt.input, tt.suffix, got, tt.want)
		}
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"rows": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"rows\": 3\n}" {
		t.Fatalf("got %q", b)
	}
}
