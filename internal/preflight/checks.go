package preflight

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"clipforge/internal/config"
)

// statfs is swapped in tests to exercise space thresholds without a real
// filesystem boundary.
var statfs = func(path string) (total, free uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total = stat.Blocks * uint64(stat.Bsize)
	free = stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minFreeGiB
// available. A zero minimum always passes.
func CheckFreeSpace(name, path string, minFreeGiB int) Result {
	if minFreeGiB <= 0 {
		return Result{Name: name, Passed: true, Detail: "no minimum configured"}
	}
	_, free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	required := uint64(minFreeGiB) << 30
	if free < required {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GiB free, need %d GiB)", path, float64(free)/float64(1<<30), minFreeGiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/float64(1<<30))}
}

// CheckTools verifies the external binaries required for export and
// inspection are on PATH.
func CheckTools(cfg *config.Config) []Result {
	requirements := []struct {
		name    string
		command string
	}{
		{"FFmpeg", cfg.FFmpegBinary()},
		{"FFprobe", cfg.FFprobeBinary()},
	}

	results := make([]Result, 0, len(requirements))
	for _, requirement := range requirements {
		path, err := exec.LookPath(requirement.command)
		if err != nil {
			results = append(results, Result{Name: requirement.name, Detail: fmt.Sprintf("%s not found in PATH", requirement.command)})
			continue
		}
		results = append(results, Result{Name: requirement.name, Passed: true, Detail: path})
	}
	return results
}
