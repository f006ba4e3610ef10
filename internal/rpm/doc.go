// Package rpm turns the rendered spec and source tarball into binary RPMs.
//
// Two builders share one contract: given a Request they leave one or more
// packages in Request.RPMSDir.
//   - ToolBuilder runs rpmbuild with the topdir overridden.
//   - NativeBuilder packs the tarball contents with google/rpmpack, for
//     hosts where rpmbuild is unavailable.
package rpm
