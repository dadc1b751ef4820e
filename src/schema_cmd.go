package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rainsimdb/src/helpers"
	"rainsimdb/src/models"
	"rainsimdb/src/schema"
)

func newSchemaCommand() *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "schema [collection]",
		Short: "Print the validators the bootstrap attaches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collections := schema.All()
			if len(args) == 1 {
				c, ok := schema.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown collection %q", args[0])
				}
				collections = []schema.Collection{c}
			}

			out := cmd.OutOrStdout()
			for _, c := range collections {
				var (
					data []byte
					err  error
				)
				if sample {
					data, err = sampleDocument(c.Name, time.Now())
				} else {
					data, err = c.Render()
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "// %s\n", c.Name)
				if _, err := out.Write(data); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "print a document each validator accepts instead")
	return cmd
}

func sampleDocument(collection string, now time.Time) ([]byte, error) {
	switch collection {
	case schema.ExperimentsName:
		return helpers.EncodeExtJSON(models.SampleExperiment(now))
	case schema.CameraName:
		return helpers.EncodeExtJSON(models.SampleCameraReading(now))
	default:
		return nil, fmt.Errorf("no sample for collection %q", collection)
	}
}
