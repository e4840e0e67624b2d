package codec

import "github.com/pkg/errors"

var (
	// ErrFormat is returned when encoded data is not well formed or does not
	// fit the requested type.
	ErrFormat = errors.New("malformed encoded data")
	// ErrTypeMismatch is returned when a type discriminator cannot be
	// resolved, or resolves to a type the target cannot hold.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnregisteredType is returned when encoding a polymorphic value whose
	// concrete type has no registered name.
	ErrUnregisteredType = errors.New("unregistered type")
	// ErrUnsupportedType is returned for kinds the codec cannot represent
	// (channels, funcs, complex numbers).
	ErrUnsupportedType = errors.New("unsupported type")
)
