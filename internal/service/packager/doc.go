// Package packager turns the Flutter Linux bundle into installable RPMs.
//
// Run resolves the version from the manifest, maps the architecture, builds
// the bundle, stages and archives it, renders the spec, builds the package
// and collects the artifacts, strictly in that order. The first failure
// aborts the run; it is returned as a *StepError naming the step, and
// ExitCode maps it to the process exit status.
package packager
