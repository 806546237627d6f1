package resource

import "errors"

var (
	// ErrUnsupportedFormat reports bytes matching no known path pattern or
	// magic. The dispatcher never guesses a schema.
	ErrUnsupportedFormat = errors.New("resource: unsupported format")

	// ErrMissingResource reports an archive entry whose canonical key is
	// absent from the resource table at serialization time.
	ErrMissingResource = errors.New("resource: missing from table")
)
