package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// probeTimeout bounds each version probe.
const probeTimeout = 5 * time.Second

// Requirement names an external binary and how to ask it for its version.
type Requirement struct {
	Name    string
	Command string
	// VersionArgs, when set, are passed to the binary and the first line of
	// its output is reported as the version.
	VersionArgs []string
	Optional    bool
}

// Status is the outcome of resolving one Requirement.
type Status struct {
	Name      string
	Command   string
	Path      string
	Version   string
	Optional  bool
	Available bool
	Detail    string
}

// Summary renders the status as a single table cell.
func (s Status) Summary() string {
	if !s.Available {
		return s.Detail
	}
	if s.Version != "" {
		return fmt.Sprintf("%s (version %s)", s.Path, s.Version)
	}
	return s.Path
}

// ExifTool describes the exiftool binary used by the exiftool extractor.
func ExifTool(command string) Requirement {
	return Requirement{Name: "ExifTool", Command: command, VersionArgs: []string{"-ver"}}
}

// CheckBinaries resolves every requirement on PATH and probes versions where
// requested. A binary that resolves but fails its probe is still available.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(ctx, req))
	}
	return results
}

func check(ctx context.Context, req Requirement) Status {
	status := Status{Name: req.Name, Command: strings.TrimSpace(req.Command), Optional: req.Optional}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Path = path
	status.Available = true
	if len(req.VersionArgs) > 0 {
		status.Version = probeVersion(ctx, path, req.VersionArgs)
	}
	return status
}

func probeVersion(ctx context.Context, path string, args []string) string {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, args...).Output()
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}
