package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/qri-io/jsonschema"
)

// Validator checks request bodies against the compiled JSON schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every known schema.
func New() (*Validator, error) {
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(schemas))}
	for name, raw := range schemas {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(raw), rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = rs
	}
	return v, nil
}

// MustNew is like New but panics on a broken schema.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate returns a VALIDATION AppError listing every offending field, or
// nil when body satisfies the named schema.
func (v *Validator) Validate(ctx context.Context, name string, body []byte) error {
	rs, ok := v.schemas[name]
	if !ok {
		return apperrors.NewInternalError("unknown schema "+name, nil)
	}

	if len(body) == 0 {
		body = []byte("{}")
	}

	keyErrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return apperrors.NewValidationError("Validation error", apperrors.FieldError{
			Path:    "body",
			Message: "request body must be valid JSON",
		})
	}
	if len(keyErrs) == 0 {
		return nil
	}

	fields := make([]apperrors.FieldError, 0, len(keyErrs))
	for _, ke := range keyErrs {
		fields = append(fields, apperrors.FieldError{
			Path:    fieldPath(ke),
			Message: ke.Message,
		})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Path < fields[j].Path })

	return apperrors.NewValidationError("Validation error", fields...)
}

// fieldPath turns "/interests/0" into "interests.0". Missing required
// properties are reported on the root, so the name is recovered from the
// message.
func fieldPath(ke jsonschema.KeyError) string {
	path := strings.Trim(ke.PropertyPath, "/")
	if path == "" {
		if start := strings.Index(ke.Message, `"`); start >= 0 {
			if end := strings.Index(ke.Message[start+1:], `"`); end > 0 {
				return ke.Message[start+1 : start+1+end]
			}
		}
		return "body"
	}
	return strings.ReplaceAll(path, "/", ".")
}
