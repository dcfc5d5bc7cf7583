package readiness

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// GoRuntimeCheck verifies the running Go version meets the minimum.
func GoRuntimeCheck(minimum string) Check {
	return Check{
		Name: "go_runtime",
		Fn: func(ctx context.Context) (bool, string, error) {
			return checkGoVersion(runtime.Version(), minimum)
		},
	}
}

func checkGoVersion(version, minimum string) (bool, string, error) {
	min, err := semver.NewVersion(minimum)
	if err != nil {
		return false, fmt.Sprintf("invalid minimum version %q", minimum), err
	}

	current, err := semver.NewVersion(strings.TrimPrefix(version, "go"))
	if err != nil {
		return false, fmt.Sprintf("unparsable runtime version %q", version), err
	}

	if current.LessThan(min) {
		return false, fmt.Sprintf("runtime %s is below minimum %s", version, minimum), nil
	}
	return true, fmt.Sprintf("runtime %s meets minimum %s", version, minimum), nil
}

// RequiredToolsCheck verifies every named binary is on PATH. A single
// failure message lists all missing tools, not just the first.
func RequiredToolsCheck(tools ...string) Check {
	return Check{
		Name: "required_tools",
		Fn: func(ctx context.Context) (bool, string, error) {
			var missing []string
			for _, tool := range tools {
				if _, err := exec.LookPath(tool); err != nil {
					missing = append(missing, tool)
				}
			}

			if len(missing) > 0 {
				return false, "missing required tools: " + strings.Join(missing, ", "), nil
			}
			return true, fmt.Sprintf("all %d required tools found", len(tools)), nil
		},
	}
}

// ReportDirectoryCheck verifies the artifact directory is writable
// before a run that intends to persist a report.
func ReportDirectoryCheck(dir string) Check {
	return Check{
		Name: "report_directory",
		Fn: func(ctx context.Context) (bool, string, error) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return false, fmt.Sprintf("cannot create %s", dir), err
			}

			probe := filepath.Join(dir, ".write_probe")
			if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
				return false, fmt.Sprintf("directory %s is not writable", dir), err
			}
			os.Remove(probe)

			return true, fmt.Sprintf("directory %s is writable", dir), nil
		},
	}
}
