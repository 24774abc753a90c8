package processor

import (
	"errors"
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Configuration error kinds. Match with errors.Is.
var (
	ErrMalformedConfig   = errors.New("malformed configuration string")
	ErrOutOfRange        = errors.New("value out of range")
	ErrUnknownMappingKey = errors.New("unknown mapping key")
	ErrInvalidController = errors.New("invalid controller list entry")
)

// ConfigError describes a rejected filter parameter string.
type ConfigError struct {
	Filter FilterID
	Entry  string // offending entry, as written by the user
	Kind   error  // one of the Err* kinds above
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("--%s: %s: %q", e.Filter, e.Detail, e.Entry)
}

func (e *ConfigError) Unwrap() error { return e.Kind }

// configError builds a tagged ConfigError. The user-facing description is the
// same text as the error so the CLI can print it without the wrap chain.
func configError(filter FilterID, kind error, entry, format string, args ...any) error {
	ce := &ConfigError{
		Filter: filter,
		Entry:  entry,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
	return fault.Wrap(ce,
		ftag.With(ftag.InvalidArgument),
		fmsg.WithDesc("invalid filter configuration", ce.Error()),
	)
}
