// Package version provides version information for the CLI.
package version

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

// These variables are set via ldflags at build time.
var (
	// Version is the CLI version.
	Version = "dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"

	// CUESDKVersion is the CUE SDK version embedded at build time.
	CUESDKVersion = "v0.15.0"
)

// Info contains version information.
type Info struct {
	Version       string
	GitCommit     string
	BuildDate     string
	GoVersion     string
	CUESDKVersion string
}

// CUEBinaryInfo contains CUE binary version information. resengine's json
// resource type validates candidates against an optional CUE constraint at
// build time, so the CLI's `version` command reports whether a compatible
// `cue` binary is available for authors who want to check constraints
// outside the engine too.
type CUEBinaryInfo struct {
	Version    string
	Path       string
	Compatible bool
	Found      bool
	Message    string
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: CUESDKVersion,
	}
}

// String returns a formatted version string.
func (i Info) String() string {
	return fmt.Sprintf("resengine %s (%s) built %s with %s\nCUE SDK: %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.CUESDKVersion)
}

var cueVersionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// DetectCUEBinary finds and checks the CUE binary installation.
func DetectCUEBinary() CUEBinaryInfo {
	path, err := exec.LookPath("cue")
	if err != nil {
		return CUEBinaryInfo{Found: false, Message: "CUE binary not found in PATH"}
	}

	ver, err := getCUEVersion(path)
	if err != nil {
		return CUEBinaryInfo{Path: path, Found: true, Message: "failed to get CUE version: " + err.Error()}
	}

	return CUEBinaryInfo{
		Version:    ver,
		Path:       path,
		Found:      true,
		Compatible: CUEVersionCompatible(CUESDKVersion, ver),
		Message:    CompatibilityMessage(CUESDKVersion, ver),
	}
}

func getCUEVersion(cuePath string) (string, error) {
	cmd := exec.Command(cuePath, "version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return extractVersion(out.String())
}

func extractVersion(output string) (string, error) {
	match := cueVersionRegex.FindString(output)
	if match == "" {
		lines := strings.Split(output, "\n")
		if len(lines) > 0 {
			match = cueVersionRegex.FindString(lines[0])
		}
	}
	if match == "" {
		return "", &versionParseError{output: output}
	}
	if !strings.HasPrefix(match, "v") {
		match = "v" + match
	}
	return match, nil
}

type versionParseError struct{ output string }

func (e *versionParseError) Error() string {
	return "failed to parse CUE version from output: " + e.output
}

// CUEVersionCompatible checks if binary version is compatible with SDK.
// Compatible means MAJOR.MINOR versions match.
func CUEVersionCompatible(sdkVersion, binaryVersion string) bool {
	sdkMajorMinor := extractMajorMinor(sdkVersion)
	binMajorMinor := extractMajorMinor(binaryVersion)
	if sdkMajorMinor == "" || binMajorMinor == "" {
		return false
	}
	return sdkMajorMinor == binMajorMinor
}

// CompatibilityMessage describes the relationship between the SDK's CUE
// version and the CUE binary found on PATH, if any.
func CompatibilityMessage(sdkVersion, binaryVersion string) string {
	if binaryVersion == "" {
		return "no CUE binary version detected"
	}
	if CUEVersionCompatible(sdkVersion, binaryVersion) {
		return fmt.Sprintf("cue binary %s is compatible with embedded SDK %s", binaryVersion, sdkVersion)
	}
	return fmt.Sprintf("cue binary %s may not match embedded SDK %s (MAJOR.MINOR mismatch)", binaryVersion, sdkVersion)
}

func extractMajorMinor(version string) string {
	version = strings.TrimPrefix(version, "v")
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + "." + parts[1]
}
