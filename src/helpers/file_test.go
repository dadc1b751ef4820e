package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestToDocument(t *testing.T) {
	when := time.Date(2023, 4, 12, 9, 30, 0, 0, time.UTC)
	doc, err := ToDocument(struct {
		Name string    `bson:"name"`
		Date time.Time `bson:"date"`
	}{Name: "run", Date: when})
	require.NoError(t, err)

	assert.Equal(t, "run", doc["name"])
	assert.Equal(t, primitive.NewDateTimeFromTime(when), doc["date"])
}

func TestDecodeExtJSON(t *testing.T) {
	doc, err := DecodeExtJSON([]byte(`{"timestamp": {"$date": "2023-04-12T09:30:00Z"}, "value": [1, 2, 3]}`))
	require.NoError(t, err)

	assert.IsType(t, primitive.DateTime(0), doc["timestamp"])
	assert.IsType(t, primitive.A{}, doc["value"])
}

func TestDecodeExtJSON_Invalid(t *testing.T) {
	_, err := DecodeExtJSON([]byte(`{"name": `))
	assert.ErrorContains(t, err, "extended JSON")
}

func TestReadDocumentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "run"}`), 0o600))

	doc, err := ReadDocumentFile(path)
	require.NoError(t, err)
	assert.Equal(t, "run", doc["name"])

	_, err = ReadDocumentFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestEncodeExtJSON(t *testing.T) {
	data, err := EncodeExtJSON(map[string]interface{}{"name": "run"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "run"}`, string(data))
	assert.Equal(t, byte('\n'), data[len(data)-1])
}
