package helpers

import (
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
)

// ToDocument round-trips v through BSON so typed records can be checked
// against a validator the way the server will see them.
func ToDocument(v interface{}) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error encoding BSON: %w", err)
	}

	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding BSON: %w", err)
	}
	return doc, nil
}

// DecodeExtJSON parses a single document in MongoDB Extended JSON, so dates
// can be written as {"$date": "..."}.
func DecodeExtJSON(data []byte) (bson.M, error) {
	var doc bson.M
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, fmt.Errorf("error decoding extended JSON: %w", err)
	}
	return doc, nil
}

// ReadDocumentFile loads an Extended JSON document from disk.
func ReadDocumentFile(path string) (bson.M, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading document file %s: %w", path, err)
	}
	return DecodeExtJSON(data)
}

// EncodeExtJSON renders a document as relaxed, indented Extended JSON.
func EncodeExtJSON(v interface{}) ([]byte, error) {
	data, err := bson.MarshalExtJSONIndent(v, false, false, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding extended JSON: %w", err)
	}
	return append(data, '\n'), nil
}
