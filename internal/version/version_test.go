package version

import (
	"strings"
	"testing"
)

func TestVersionCarriesSemver(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must not be empty")
	}
	// The string may carry ANSI color sequences; the digits and dots must
	// survive either way.
	for _, part := range []string{"0", "1", "."} {
		if !strings.Contains(Version, part) {
			t.Errorf("Version %q missing %q", Version, part)
		}
	}
}

func TestBuildMetadataOverridable(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() {
		GitCommit, BuildDate = origCommit, origDate
	}()

	GitCommit = "abc123def456"
	BuildDate = "2026-08-30T10:30:00Z"

	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q after override", GitCommit)
	}
	if BuildDate != "2026-08-30T10:30:00Z" {
		t.Errorf("BuildDate = %q after override", BuildDate)
	}
}
