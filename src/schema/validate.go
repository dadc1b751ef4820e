package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDocumentInvalid is matched by every *ValidationError.
var ErrDocumentInvalid = errors.New("document failed validation")

type Violation struct {
	Field  string
	Reason string
}

// ValidationError lists every field of a document that violates a schema.
type ValidationError struct {
	Collection string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Reason)
	}
	return fmt.Sprintf("%s in %s: %s", ErrDocumentInvalid, e.Collection, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrDocumentInvalid
}

// Validate checks doc against the collection validator the same way the
// server does for the keywords used here: required and bsonType. Fields not
// declared in properties are accepted.
func (c Collection) Validate(doc bson.M) error {
	violations := c.Schema.violations(doc)
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Collection: c.Name, Violations: violations}
}

func (s JSONSchema) violations(doc bson.M) []Violation {
	var out []Violation

	for _, field := range s.Required {
		if _, ok := doc[field]; !ok {
			out = append(out, Violation{Field: field, Reason: "missing required field"})
		}
	}

	for field, value := range doc {
		prop, ok := s.Properties[field]
		if !ok {
			continue
		}
		if !matchesType(prop.BSONType, value) {
			out = append(out, Violation{
				Field:  field,
				Reason: fmt.Sprintf("expected %s, got %s", prop.BSONType, describe(value)),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func matchesType(bsonType string, value interface{}) bool {
	switch bsonType {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeDate:
		switch value.(type) {
		case time.Time, primitive.DateTime:
			return true
		}
		return false
	case TypeObjectID:
		_, ok := value.(primitive.ObjectID)
		return ok
	case TypeArray:
		return isArray(value)
	case TypeObject:
		switch value.(type) {
		case bson.M, bson.D, map[string]interface{}:
			return true
		}
		return false
	default:
		return false
	}
}

func isArray(value interface{}) bool {
	if value == nil {
		return false
	}
	// []byte encodes as binary, not array
	if _, ok := value.([]byte); ok {
		return false
	}
	switch value.(type) {
	case bson.D, primitive.ObjectID:
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		// a nil slice encodes as null
		return !rv.IsNil()
	case reflect.Array:
		return true
	}
	return false
}

func describe(value interface{}) string {
	if value == nil {
		return "null"
	}
	return reflect.TypeOf(value).String()
}
