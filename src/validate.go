package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rainsimdb/src/helpers"
	"rainsimdb/src/schema"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <collection> <file>",
		Short: "Check an Extended JSON document against a collection validator",
		Long: `Validate reads one document in MongoDB Extended JSON and reports whether the
collection's validator would accept it. Dates are written as {"$date": "..."}.
No server connection is made.`,
		Args: cobra.ExactArgs(2),
		RunE: a.runValidate,
	}
}

func (a *app) runValidate(cmd *cobra.Command, args []string) error {
	collection, ok := schema.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown collection %q", args[0])
	}

	doc, err := helpers.ReadDocumentFile(args[1])
	if err != nil {
		return err
	}

	if err := collection.Validate(doc); err != nil {
		a.logger.Debugw("document rejected", "collection", collection.Name, "file", args[1])
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "document is valid for %s\n", collection.Name)
	return nil
}
