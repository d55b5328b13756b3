package message

import (
	"context"
	"embed"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/*.json
var schemas embed.FS

// Validator performs validation of outgoing messages.
//
// ValidationError may be returned to share validation issues precisely.
type Validator interface {
	Validate(ctx context.Context, stream []byte) ([]byte, error)
}

type ValidationError struct {
	Errors []ValidationErrorDetail
}

type ValidationErrorDetail struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (err ValidationError) Error() string {
	return fmt.Sprintf("validation issues: %+v", err.Errors)
}

// NoOpValidatorImpl is a no-op validator.
type NoOpValidatorImpl struct{}

var _ Validator = (*NoOpValidatorImpl)(nil)

func (v *NoOpValidatorImpl) Validate(ctx context.Context, stream []byte) ([]byte, error) {
	return stream, nil
}

// schemaValidatorImpl validates messages against the embedded JSON schemas.
type schemaValidatorImpl struct {
	schemas map[string]*gojsonschema.Schema
}

var _ Validator = (*schemaValidatorImpl)(nil)

// NewValidator compiles the embedded schemas.
func NewValidator() (*schemaValidatorImpl, error) {
	v := &schemaValidatorImpl{schemas: map[string]*gojsonschema.Schema{}}
	for _, name := range []string{SchemaMetadataChanged, SchemaImportCompleted} {
		blob, err := schemas.ReadFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "schema %s could not be read", name)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(blob))
		if err != nil {
			return nil, errors.Wrapf(err, "schema %s could not be compiled", name)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

func (v *schemaValidatorImpl) Validate(ctx context.Context, stream []byte) ([]byte, error) {
	env, err := Open(stream)
	if err != nil {
		return nil, err
	}
	if env.Attributes.Version != Version {
		return nil, fmt.Errorf("unsupported version %q", env.Attributes.Version)
	}
	schema, ok := v.schemas[env.SchemaDefinition()]
	if !ok {
		return nil, fmt.Errorf("unknown message type %q", env.Attributes.MessageType)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(stream))
	if err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	if !res.Valid() {
		verr := ValidationError{}
		for _, item := range res.Errors() {
			verr.Errors = append(verr.Errors, ValidationErrorDetail{
				Message: item.Description(),
				Path:    item.Field(),
			})
		}
		return nil, verr
	}
	return stream, nil
}
