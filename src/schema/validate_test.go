package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rainsimdb/src/helpers"
	"rainsimdb/src/models"
)

var when = time.Date(2023, 4, 12, 9, 30, 0, 0, time.UTC)

func TestExperimentsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		doc        bson.M
		wantFields []string
	}{
		{
			name: "required fields without cameraReference",
			doc:  bson.M{"name": "run", "description": "baseline", "date": when},
		},
		{
			name: "with cameraReference",
			doc: bson.M{
				"name": "run", "description": "baseline", "date": primitive.NewDateTimeFromTime(when),
				"cameraReference": bson.A{primitive.NewObjectID()},
			},
		},
		{
			name: "undeclared fields are accepted",
			doc:  bson.M{"name": "run", "description": "baseline", "date": when, "operator": "lab-2"},
		},
		{
			name:       "missing date",
			doc:        bson.M{"name": "run", "description": "baseline"},
			wantFields: []string{"date"},
		},
		{
			name:       "date as string",
			doc:        bson.M{"name": "run", "description": "baseline", "date": "2023-04-12"},
			wantFields: []string{"date"},
		},
		{
			name:       "cameraReference not an array",
			doc:        bson.M{"name": "run", "description": "baseline", "date": when, "cameraReference": "abc"},
			wantFields: []string{"cameraReference"},
		},
		{
			name:       "null name",
			doc:        bson.M{"name": nil, "description": "baseline", "date": when},
			wantFields: []string{"name"},
		},
		{
			name:       "empty document",
			doc:        bson.M{},
			wantFields: []string{"date", "description", "name"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Experiments().Validate(tt.doc)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDocumentInvalid))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, ExperimentsName, verr.Collection)

			fields := make([]string, len(verr.Violations))
			for i, v := range verr.Violations {
				fields[i] = v.Field
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestCameraValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     bson.M
		wantErr bool
	}{
		{name: "timestamp and value", doc: bson.M{"timestamp": when, "value": bson.A{1, 2, 3}}},
		{name: "typed slice value", doc: bson.M{"timestamp": when, "value": []float64{0.5, 0.25}}},
		{name: "empty array value", doc: bson.M{"timestamp": when, "value": bson.A{}}},
		{name: "missing timestamp", doc: bson.M{"value": bson.A{1, 2, 3}}, wantErr: true},
		{name: "missing value", doc: bson.M{"timestamp": when}, wantErr: true},
		{name: "nil slice value", doc: bson.M{"timestamp": when, "value": []float64(nil)}, wantErr: true},
		{name: "nil array value", doc: bson.M{"timestamp": when, "value": bson.A(nil)}, wantErr: true},
		{name: "value as binary", doc: bson.M{"timestamp": when, "value": []byte{1, 2, 3}}, wantErr: true},
		{name: "value as document", doc: bson.M{"timestamp": when, "value": bson.D{{Key: "a", Value: 1}}}, wantErr: true},
		{name: "timestamp as number", doc: bson.M{"timestamp": int64(1681291800), "value": bson.A{1}}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Camera().Validate(tt.doc)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDocumentInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Camera().Validate(bson.M{"value": "x"})
	require.Error(t, err)
	assert.Equal(t,
		"document failed validation in camera: timestamp: missing required field; value: expected array, got string",
		err.Error())
}

func TestValidate_ExtendedJSONDocument(t *testing.T) {
	doc, err := helpers.DecodeExtJSON([]byte(`{"timestamp": {"$date": "2023-04-12T09:30:00Z"}, "value": [1, 2, 3]}`))
	require.NoError(t, err)
	assert.NoError(t, Camera().Validate(doc))
}

func TestSampleRecordsSatisfyValidators(t *testing.T) {
	exp, err := helpers.ToDocument(models.SampleExperiment(when))
	require.NoError(t, err)
	assert.NoError(t, Experiments().Validate(exp))
	assert.NotContains(t, exp, "cameraReference", "empty references are omitted")

	withRefs := models.SampleExperiment(when)
	withRefs.CameraReference = []primitive.ObjectID{primitive.NewObjectID()}
	exp, err = helpers.ToDocument(withRefs)
	require.NoError(t, err)
	assert.NoError(t, Experiments().Validate(exp))

	reading, err := helpers.ToDocument(models.SampleCameraReading(when))
	require.NoError(t, err)
	assert.NoError(t, Camera().Validate(reading))
}
