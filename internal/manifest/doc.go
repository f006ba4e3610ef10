// Package manifest reads the application version from the project manifest
// (pubspec.yaml) and normalizes it for packaging.
package manifest
