package ux

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()

	first := UniquePath(dir, "satpam_export.xlsx")
	if want := filepath.Join(dir, "satpam_export.xlsx"); first != want {
		t.Fatalf("UniquePath() = %s, want %s", first, want)
	}
	touch(t, first)

	second := UniquePath(dir, "satpam_export.xlsx")
	if want := filepath.Join(dir, "satpam_export (1).xlsx"); second != want {
		t.Fatalf("UniquePath() = %s, want %s", second, want)
	}
	touch(t, second)

	third := UniquePath(dir, "satpam_export.xlsx")
	if want := filepath.Join(dir, "satpam_export (2).xlsx"); third != want {
		t.Errorf("UniquePath() = %s, want %s", third, want)
	}
}

func TestUniquePath_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	got := UniquePath(dir, "../../etc/passwd")
	if want := filepath.Join(dir, "passwd"); got != want {
		t.Errorf("UniquePath() = %s, want %s", got, want)
	}
}

func TestExportPath(t *testing.T) {
	dir := t.TempDir()

	if got := ExportPath(dir, "a.xlsx"); got != filepath.Join(dir, "a.xlsx") {
		t.Errorf("ExportPath(dir) = %s", got)
	}

	explicit := filepath.Join(dir, "custom.xlsx")
	touch(t, explicit)
	if got := ExportPath(explicit, "a.xlsx"); got != explicit {
		t.Errorf("ExportPath(file) = %s, want %s", got, explicit)
	}

	if got := ExportPath("", "a.xlsx"); got != "a.xlsx" {
		t.Errorf("ExportPath(\"\") = %s, want a.xlsx", got)
	}
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.xlsx")
	if err := WriteExport(path, []byte("data")); err != nil {
		t.Fatalf("WriteExport() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q", got)
	}
}

func TestValidateRequiredFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "import.xlsx")
	touch(t, file)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", file, false},
		{"missing file", filepath.Join(dir, "missing.xlsx"), true},
		{"directory", dir, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequiredFile(tt.path, "import file")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequiredFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
