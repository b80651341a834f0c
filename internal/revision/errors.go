package revision

import "errors"

var (
	ErrVersionNotFound   = errors.New("version not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrTagExists         = errors.New("tag already exists")
	ErrTagNameRequired   = errors.New("tag name is required")
	ErrVersionPublished  = errors.New("version is published")
	ErrNotEnoughVersions = errors.New("not enough versions to compare")
	ErrInvalidVersionID  = errors.New("invalid version id")
)

// IsNotFound reports whether err means a referenced version or tag is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrVersionNotFound) || errors.Is(err, ErrTagNotFound)
}

// IsConflict reports whether err means a uniqueness or state invariant
// would be violated.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTagExists) || errors.Is(err, ErrVersionPublished) || errors.Is(err, ErrNotEnoughVersions)
}

// IsInvalidArgument reports whether err means the input itself was unusable.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidVersionID) || errors.Is(err, ErrTagNameRequired)
}
