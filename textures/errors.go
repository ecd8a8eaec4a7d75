package textures

import "fmt"

// ResourceLoadError reports an image file that could not be opened or
// decoded. Err is the underlying os or decoder error.
type ResourceLoadError struct {
	Path string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("load texture image %q: %v", e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }
