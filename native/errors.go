package native

import "github.com/pkg/errors"

// Fatal errors. They abort the document being processed.
var (
	ErrCodecNotRegistered  = errors.New("no codec registered")
	ErrDuplicateCodec      = errors.New("more than one codec registered")
	ErrUnsupportedEncoding = errors.New("unsupported embed encoding")
	ErrUnknownRootElement  = errors.New("unknown root element")
	ErrMissingContext      = errors.New("deployment has no context")
	ErrMissingParent       = errors.New("missing parent entity")
	ErrUnexpectedEntity    = errors.New("unexpected entity type")
)

func unexpected(k Kind, v interface{}) error {
	return errors.Wrapf(ErrUnexpectedEntity, "%s codec cannot handle %T", k, v)
}
