// Package lock keeps two packager runs from sharing the staging and rpmbuild
// directories at the same time.
//
// The lock is a file holding the owner's PID and executable name. A lock whose
// owner is no longer running (checked with go-ps) is considered stale and
// replaced. A lock without a readable PID is left alone.
package lock
