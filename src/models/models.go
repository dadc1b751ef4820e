package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Experiment is one experimental run. It is the parent entity that camera
// readings are attached to.
type Experiment struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Date        time.Time `bson:"date" json:"date"`

	// Keys of the camera readings recorded during the run
	CameraReference []primitive.ObjectID `bson:"cameraReference,omitempty" json:"cameraReference,omitempty"`
}

// CameraReading is a single time-series sample from the depth camera.
type CameraReading struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`

	// Pixel or feature values of the sample
	Value []float64 `bson:"value" json:"value"`
}

// SampleExperiment returns an experiment that satisfies the experiments validator.
func SampleExperiment(now time.Time) Experiment {
	return Experiment{
		Name:        "baseline",
		Description: "rain simulation baseline run",
		Date:        now.UTC(),
	}
}

// SampleCameraReading returns a reading that satisfies the camera validator.
func SampleCameraReading(now time.Time) CameraReading {
	return CameraReading{
		Timestamp: now.UTC(),
		Value:     []float64{1, 2, 3},
	}
}
