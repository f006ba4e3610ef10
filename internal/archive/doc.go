// Package archive writes and reads the gzip-compressed source tarball.
//
// Entries are added in lexical order under a single root directory, the
// layout rpmbuild's %setup expects.
package archive
