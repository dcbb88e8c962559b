package patch

import "path/filepath"

// RelPath is a forward-slash relative path as recorded in manifests and
// packages. It is distinct from host filesystem paths; conversion
// happens only at the filesystem boundary.
type RelPath string

// RelPathFromHost converts a host-relative path into its manifest form.
func RelPathFromHost(p string) RelPath {
	return RelPath(filepath.ToSlash(p))
}

// Host converts the path back into the host filesystem form.
func (p RelPath) Host() string {
	return filepath.FromSlash(string(p))
}
