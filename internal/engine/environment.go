package engine

import (
	"fmt"
	"os"
	"runtime"
)

var supportedPlatforms = map[string]bool{
	"linux/amd64":   true,
	"linux/arm64":   true,
	"darwin/amd64":  true,
	"darwin/arm64":  true,
	"windows/amd64": true,
	"windows/arm64": true,
}

// EnvironmentCheck verifies the host can run the engine before anything is fetched
type EnvironmentCheck func(workspace string) error

// CheckEnvironment requires a platform with ffmpeg builds and a writable workspace
func CheckEnvironment(workspace string) error {
	platform := runtime.GOOS + "/" + runtime.GOARCH
	if !supportedPlatforms[platform] {
		return &UnsupportedEnvironmentError{
			Reason:      fmt.Sprintf("no encoder builds for %s", platform),
			Remediation: "run on linux, darwin or windows (amd64/arm64)",
		}
	}

	if err := os.MkdirAll(workspace, 0755); err != nil {
		return &UnsupportedEnvironmentError{
			Reason:      fmt.Sprintf("workspace %s cannot be created: %v", workspace, err),
			Remediation: "set engine.workspace to a writable directory",
		}
	}

	f, err := os.CreateTemp(workspace, ".probe-*")
	if err != nil {
		return &UnsupportedEnvironmentError{
			Reason:      fmt.Sprintf("workspace %s is not writable: %v", workspace, err),
			Remediation: "set engine.workspace to a writable directory",
		}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	return nil
}
