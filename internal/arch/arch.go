// Package arch maps the architecture selector given on the command line to
// the names used by the RPM tooling and by the Flutter bundle layout.
package arch

// Selectors understood by the packager. Any other token passes through as is.
const (
	X64   = "x64"
	ARM64 = "arm64"
)

// Target holds one architecture in both naming conventions.
type Target struct {
	// Input is the selector the target was resolved from.
	Input string
	// RPM is the architecture name rpmbuild uses (e.g. x86_64, aarch64).
	RPM string
	// Bundle is the directory name under build/linux (e.g. x64, arm64).
	Bundle string
}

// Resolve maps a selector to its Target. It never fails: unknown tokens map to themselves.
func Resolve(token string) Target {
	return Target{
		Input:  token,
		RPM:    RPMArch(token),
		Bundle: BundleArch(token),
	}
}

// RPMArch returns the rpm architecture for a selector.
func RPMArch(token string) string {
	switch token {
	case X64:
		return "x86_64"
	case ARM64:
		return "aarch64"
	default:
		return token
	}
}

// BundleArch returns the Flutter bundle directory name for a selector.
func BundleArch(token string) string {
	switch token {
	case X64:
		return "x64"
	case ARM64:
		return "arm64"
	default:
		return token
	}
}
