// Package schema declares the collections the bootstrap creates and the
// $jsonSchema validators the server enforces on them.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
)

// BSON type aliases accepted by $jsonSchema's bsonType keyword.
const (
	TypeObject   = "object"
	TypeString   = "string"
	TypeDate     = "date"
	TypeArray    = "array"
	TypeObjectID = "objectId"
)

type Property struct {
	BSONType    string `bson:"bsonType" json:"bsonType"`
	Description string `bson:"description" json:"description"`
}

type JSONSchema struct {
	BSONType   string              `bson:"bsonType" json:"bsonType"`
	Required   []string            `bson:"required" json:"required"`
	Properties map[string]Property `bson:"properties" json:"properties"`
}

// Collection is a named collection together with its validator.
type Collection struct {
	Name   string
	Schema JSONSchema

	// TimeField names the date field a time-series collection is keyed on.
	// Empty for collections that are never created as time series.
	TimeField string
}

// Validator returns the document passed as the validator option of create.
func (c Collection) Validator() bson.M {
	return bson.M{"$jsonSchema": c.Schema}
}

// Render returns the validator as indented JSON terminated by a newline.
func (c Collection) Render() ([]byte, error) {
	data, err := json.MarshalIndent(c.Validator(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering %s validator: %w", c.Name, err)
	}
	return append(data, '\n'), nil
}

// Matches reports whether stored, a $jsonSchema document read back from
// the server, is the declared schema. The order of required fields is
// ignored; any other keyword or type difference is a mismatch.
func (s JSONSchema) Matches(stored bson.Raw) (bool, error) {
	declared, err := bson.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("encoding declared schema: %w", err)
	}

	var want, got bson.M
	if err := bson.Unmarshal(declared, &want); err != nil {
		return false, fmt.Errorf("decoding declared schema: %w", err)
	}
	if err := bson.Unmarshal(stored, &got); err != nil {
		return false, fmt.Errorf("decoding stored schema: %w", err)
	}
	return reflect.DeepEqual(normalize(want), normalize(got)), nil
}

// normalize converts nested documents to maps and sorts required lists so
// two equivalent schemas compare equal.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		out := make(bson.M, len(v))
		for key, elem := range v {
			out[key] = normalize(elem)
			if key == "required" {
				out[key] = sortStrings(out[key])
			}
		}
		return out
	case bson.D:
		return normalize(v.Map())
	case bson.A:
		out := make(bson.A, len(v))
		for i, elem := range v {
			out[i] = normalize(elem)
		}
		return out
	default:
		return v
	}
}

func sortStrings(value interface{}) interface{} {
	list, ok := value.(bson.A)
	if !ok {
		return value
	}
	names := make([]string, 0, len(list))
	for _, elem := range list {
		name, ok := elem.(string)
		if !ok {
			return value
		}
		names = append(names, name)
	}
	slices.Sort(names)

	out := make(bson.A, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}

// ParseValidator extracts the $jsonSchema document from a collection's
// options without interpreting it. The second result is false when the
// options carry no $jsonSchema.
func ParseValidator(options bson.Raw) (bson.Raw, bool, error) {
	if len(options) == 0 {
		return nil, false, nil
	}
	if err := options.Validate(); err != nil {
		return nil, false, fmt.Errorf("decoding collection options: %w", err)
	}

	value, err := options.LookupErr("validator", "$jsonSchema")
	if err != nil {
		return nil, false, nil
	}
	doc, ok := value.DocumentOK()
	if !ok {
		return nil, false, fmt.Errorf("decoding collection options: $jsonSchema is a %s, not a document", value.Type)
	}
	return doc, true, nil
}
