package model

import (
	"fmt"

	errs "github.com/c360studio/semstreams/pkg/errs"
)

// Sentinel errors for the codec. Callers match them with errors.Is.
var (
	// ErrConfiguration covers a missing or unusable prefix map, an unknown
	// format name or an unreadable serialisation name. Always fatal.
	ErrConfiguration = errs.ErrInvalidConfig

	// ErrFormat covers input that breaks the grammar of its format, such as
	// a metadata header that is not YAML.
	ErrFormat = errs.ErrParsingFailed
)

// ConfigError returns a fatal classified error wrapping ErrConfiguration.
func ConfigError(component, method, format string, args ...any) error {
	err := fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
	return errs.WrapFatal(err, component, method, "configure")
}

// FormatError returns an invalid-input classified error wrapping ErrFormat.
func FormatError(component, method, format string, args ...any) error {
	err := fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
	return errs.WrapInvalid(err, component, method, "parse")
}

// WrapFormat classifies an underlying decode error as ErrFormat.
func WrapFormat(err error, component, method string) error {
	if err == nil {
		return nil
	}
	return errs.WrapInvalid(fmt.Errorf("%w: %w", ErrFormat, err), component, method, "parse")
}
