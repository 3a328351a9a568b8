package transcript

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// FormatVersion is stamped on every session this build records. Replay
// accepts sessions recorded at the same major version and no newer than the
// current build.
const FormatVersion = "1.0.0"

// FormatVersionError indicates a stored session this build cannot replay.
type FormatVersionError struct {
	Found     string
	Supported string
}

func (e *FormatVersionError) Error() string {
	return fmt.Sprintf("session format %s is not supported by this build (format %s)", e.Found, e.Supported)
}

// CheckFormatVersion reports whether a session recorded at found can be
// replayed by this build.
func CheckFormatVersion(found string) error {
	foundVer, err := semver.NewVersion(found)
	if err != nil {
		return fmt.Errorf("invalid session format version %q: %w", found, err)
	}
	current := semver.MustParse(FormatVersion)

	if foundVer.Major() != current.Major() || foundVer.GreaterThan(current) {
		return &FormatVersionError{
			Found:     found,
			Supported: FormatVersion,
		}
	}
	return nil
}
