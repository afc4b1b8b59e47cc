package cap

import (
	"errors"
	"fmt"
)

// ErrMalformedContainer is the root of every container construction failure.
// No CapFile is returned alongside it.
var ErrMalformedContainer = errors.New("malformed CAP container")

var (
	// ErrMissingManifest is returned when META-INF/MANIFEST.MF is absent.
	ErrMissingManifest = fmt.Errorf("%w: no manifest", ErrMalformedContainer)

	// ErrPackageNameUnresolved is returned when no package was given and no
	// Header.cap entry exists to derive one from.
	ErrPackageNameUnresolved = fmt.Errorf("%w: could not figure out the package name", ErrMalformedContainer)

	// ErrMissingHeader is returned when the package has no Header component,
	// or when the component is too short for its layout.
	ErrMissingHeader = fmt.Errorf("%w: no Header component", ErrMalformedContainer)

	// ErrInvalidManifest is returned when the manifest does not hold the
	// single Java Card section a report needs.
	ErrInvalidManifest = fmt.Errorf("%w: invalid manifest", ErrMalformedContainer)
)

var (
	// ErrInvalidAID is returned for identifiers outside the 5-16 byte range.
	ErrInvalidAID = errors.New("invalid AID")

	// ErrInvalidBlockSize is returned when load blocks are requested with a
	// non-positive block size.
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrEnvironmentFault reports a missing runtime capability, such as the
	// SHA-1 implementation. It is raised with panic.
	ErrEnvironmentFault = errors.New("environment fault")
)
