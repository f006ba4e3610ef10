// Package toolchain runs the external programs the packager depends on
// (flutter, rpmbuild) as blocking child processes.
//
// The Runner interface lets the pipeline be exercised without the real
// tools; ExecRunner is the production implementation.
package toolchain
