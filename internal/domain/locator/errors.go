package locator

import "errors"

// ErrNotFound indicates no marker and no registry match cover the directory.
var ErrNotFound = errors.New("no tracked project found")
