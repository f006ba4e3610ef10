// Package config defines packager settings and provides helpers to load,
// validate and save them in YAML format.
//
// Every relative path is resolved against the project root so the pipeline
// never depends on the process working directory. Layout turns the settings,
// the resolved version and the target architecture into the absolute paths
// a single run reads and writes.
package config
