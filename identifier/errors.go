package identifier

import "errors"

// Sentinel construction errors. These surface through registry.ParseError
// when a snapshot is loaded from JSON, and directly when building
// identifiers programmatically.
var (
	ErrBlankStableID = errors.New("identifier: stable id must not be blank")
	ErrInvalidRange  = errors.New("identifier: version range min must not exceed max")
	ErrInvalidRampUp = errors.New("identifier: ramp-up must be within [0, 100]")
)
