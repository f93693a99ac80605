package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Videos directory", dir)
	if !result.Passed {
		t.Fatalf("expected writable temp dir to pass: %+v", result)
	}

	result = CheckDirectoryAccess("Videos directory", filepath.Join(dir, "missing"))
	if result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("expected missing dir to fail: %+v", result)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result = CheckDirectoryAccess("Videos directory", file)
	if result.Passed || !strings.Contains(result.Detail, "not a directory") {
		t.Fatalf("expected plain file to fail: %+v", result)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	original := statfs
	t.Cleanup(func() { statfs = original })

	statfs = func(string) (uint64, uint64, error) {
		return 100 << 30, 1 << 30, nil
	}
	result := CheckFreeSpace("Videos free space", "/videos", 2)
	if result.Passed {
		t.Fatalf("expected 1 GiB free to fail a 2 GiB minimum: %+v", result)
	}

	statfs = func(string) (uint64, uint64, error) {
		return 100 << 30, 10 << 30, nil
	}
	result = CheckFreeSpace("Videos free space", "/videos", 2)
	if !result.Passed {
		t.Fatalf("expected 10 GiB free to pass: %+v", result)
	}

	statfs = func(string) (uint64, uint64, error) {
		return 0, 0, errors.New("no such device")
	}
	result = CheckFreeSpace("Videos free space", "/videos", 2)
	if result.Passed {
		t.Fatalf("expected statfs failure to fail: %+v", result)
	}

	if result := CheckFreeSpace("Videos free space", "/videos", 0); !result.Passed {
		t.Fatalf("zero minimum must always pass: %+v", result)
	}
}

func TestRunAllWithStubbedEnvironment(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	cfg.Render.MinFreeGiB = 0

	results := RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected checks to run")
	}
	if !AllPassed(results) {
		failure, _ := FirstFailure(results)
		t.Fatalf("expected all checks to pass, first failure: %+v", failure)
	}
}

func TestCheckToolsReportsMissingBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	t.Setenv("PATH", t.TempDir())

	results := CheckTools(cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 tool checks, got %d", len(results))
	}
	for _, result := range results {
		if result.Passed {
			t.Fatalf("expected tool check to fail with empty PATH: %+v", result)
		}
	}
}
