package cowdisk

import "fmt"

const (
	// MajorVersion changes on big (possibly breaking) API changes.
	MajorVersion = 0

	// MinorVersion changes on new features.
	MinorVersion = 1

	// PatchVersion changes on bugfixes.
	PatchVersion = 0
)

// Version returns the version tuple of this build.
func Version() (int, int, int) {
	return MajorVersion, MinorVersion, PatchVersion
}

// VersionString returns a human readable version string.
func VersionString() string {
	return fmt.Sprintf("%d.%d.%d", MajorVersion, MinorVersion, PatchVersion)
}
