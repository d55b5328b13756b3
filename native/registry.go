package native

import (
	"context"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Codec converts one kind of entity to and from its XML element.
type Codec interface {
	Kind() Kind

	// Element is the tag of a single entity, Collection the tag of the
	// wrapper used when more than one is rendered at the root.
	Element() string
	Collection() string

	// Export renders v. A nil element without error means the entity was
	// dropped and the reason recorded in the deployment report.
	Export(ctx context.Context, d *Deployment, v interface{}) (*etree.Element, error)

	// Import persists the entity described by el under parent p. A nil
	// entity without error means the element was skipped.
	Import(ctx context.Context, d *Deployment, el *etree.Element, p Parent) (interface{}, error)
}

// Registry maps every Kind to exactly one Codec.
type Registry struct {
	codecs map[Kind]Codec
}

// NewRegistry builds a registry and verifies that every kind in Kinds has
// exactly one codec.
func NewRegistry(codecs ...Codec) (*Registry, error) {
	r := &Registry{codecs: make(map[Kind]Codec, len(codecs))}
	for _, c := range codecs {
		if _, ok := r.codecs[c.Kind()]; ok {
			return nil, errors.Wrap(ErrDuplicateCodec, c.Kind().String())
		}
		r.codecs[c.Kind()] = c
	}
	if err := r.verify(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) verify() error {
	for _, k := range Kinds {
		if _, ok := r.codecs[k]; !ok {
			return errors.Wrap(ErrCodecNotRegistered, k.String())
		}
	}
	seen := map[string]Kind{}
	for k, c := range r.codecs {
		for _, tag := range []string{c.Element(), c.Collection()} {
			if tag == "" {
				continue
			}
			if other, ok := seen[tag]; ok && other != k {
				return errors.Wrapf(ErrDuplicateCodec, "element %q claimed by %s and %s", tag, other, k)
			}
			seen[tag] = k
		}
	}
	return nil
}

// Override returns a copy of the registry where the given codecs replace
// the ones registered for their kinds.
func (r *Registry) Override(codecs ...Codec) (*Registry, error) {
	next := &Registry{codecs: make(map[Kind]Codec, len(r.codecs))}
	for k, c := range r.codecs {
		next.codecs[k] = c
	}
	for _, c := range codecs {
		next.codecs[c.Kind()] = c
	}
	if err := next.verify(); err != nil {
		return nil, err
	}
	return next, nil
}

// Codec returns the codec of a kind.
func (r *Registry) Codec(k Kind) (Codec, error) {
	c, ok := r.codecs[k]
	if !ok {
		return nil, errors.Wrap(ErrCodecNotRegistered, k.String())
	}
	return c, nil
}

// Resolve returns the codec for a group key such as "native-xml=>author".
func (r *Registry) Resolve(groupKey string) (Codec, error) {
	k, _, err := ParseGroupKey(groupKey)
	if err != nil {
		return nil, err
	}
	return r.Codec(k)
}

// ByElement finds the codec owning a tag. collection reports whether the
// tag is the plural wrapper.
func (r *Registry) ByElement(tag string) (c Codec, collection bool, ok bool) {
	for _, k := range Kinds {
		codec := r.codecs[k]
		switch tag {
		case codec.Element():
			return codec, false, true
		case codec.Collection():
			return codec, true, true
		}
	}
	return nil, false, false
}
