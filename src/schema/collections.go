package schema

const (
	ExperimentsName = "experiments"
	CameraName      = "camera"
)

// Experiments is the root collection: one document per experimental run.
func Experiments() Collection {
	return Collection{
		Name: ExperimentsName,
		Schema: JSONSchema{
			BSONType: TypeObject,
			Required: []string{"name", "description", "date"},
			Properties: map[string]Property{
				"name": {
					BSONType:    TypeString,
					Description: "must be a string and is required",
				},
				"description": {
					BSONType:    TypeString,
					Description: "must be a string and is required",
				},
				"date": {
					BSONType:    TypeDate,
					Description: "must be a date and is required",
				},
				"cameraReference": {
					BSONType:    TypeArray,
					Description: "must be a array of keys",
				},
			},
		},
	}
}

// Camera holds one row per depth camera sample.
func Camera() Collection {
	return Collection{
		Name:      CameraName,
		TimeField: "timestamp",
		Schema: JSONSchema{
			BSONType: TypeObject,
			Required: []string{"timestamp", "value"},
			Properties: map[string]Property{
				"timestamp": {
					BSONType:    TypeDate,
					Description: "must be a date and is required",
				},
				"value": {
					BSONType:    TypeArray,
					Description: "must be a array and is required",
				},
			},
		},
	}
}

// All returns the collections in creation order.
func All() []Collection {
	return []Collection{Experiments(), Camera()}
}

// Lookup finds a collection by name.
func Lookup(name string) (Collection, bool) {
	for _, c := range All() {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}
