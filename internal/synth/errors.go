package synth

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying synthesis failures with errors.Is.
var (
	// ErrMissingConfig indicates Build was called before a required input
	// was supplied through the chained setters.
	ErrMissingConfig = errors.New("synthesizer input not configured")

	// ErrUnresolvedType indicates a contract or member type could not be
	// resolved against the declared contract world.
	ErrUnresolvedType = errors.New("type resolution failed")

	// ErrConflict indicates two definitions claimed the same identity,
	// such as a duplicate variant id or a duplicate single-valued key.
	ErrConflict = errors.New("conflicting definitions")

	// ErrConsumed indicates Build was called on an already-consumed
	// synthesizer.
	ErrConsumed = errors.New("synthesizer already consumed")
)

// ConfigError reports a missing synthesizer input by name so callers can see
// exactly which setter was skipped.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cannot build registry: %s was not provided", e.Missing)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates an error naming the unset input.
func NewConfigError(missing string) error {
	return &ConfigError{Missing: missing}
}

// ResolveError reports a type that could not be resolved or bound while
// synthesizing a family.
type ResolveError struct {
	Family string
	Type   string
	Reason string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("family %q: cannot resolve %q: %s", e.Family, e.Type, e.Reason)
}

func (e *ResolveError) Is(target error) bool {
	return target == ErrUnresolvedType
}

// NewResolveError creates an error for a type that failed resolution.
func NewResolveError(family, typeName, reason string) error {
	return &ResolveError{Family: family, Type: typeName, Reason: reason}
}

// ConflictError reports two definitions colliding on the same key. Kind names
// the index or namespace, Key the colliding value, and First/Second the
// definitions involved.
type ConflictError struct {
	Family string
	Kind   string
	Key    string
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("family %q: duplicate %s %s: claimed by both %q and %q",
		e.Family, e.Kind, e.Key, e.First, e.Second)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// IsConflict reports whether err is a definition conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsMissingConfig reports whether err stems from an unset synthesizer input.
func IsMissingConfig(err error) bool {
	return errors.Is(err, ErrMissingConfig)
}
