package archive

import "fmt"

// PackageFormatError reports a package that could not be opened as a zip archive
type PackageFormatError struct {
	Path string
	Err  error
}

func (e *PackageFormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("package is not a readable slide deck: %v", e.Err)
	}
	return fmt.Sprintf("package %s is not a readable slide deck: %v", e.Path, e.Err)
}

func (e *PackageFormatError) Unwrap() error { return e.Err }
