package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saiyolab/lpengine/internal/schemas"
)

var validateKind string

var validateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Validate a settings JSON file against its schema",
	Long: `Validate an exported settings or job JSON file against the JSON Schema
under schemas/. The kind selects the schema: lp, recruit or job.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateKind, "kind", "lp", "Record kind: lp, recruit or job")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	var schemaRel string
	switch validateKind {
	case "lp":
		schemaRel = schemas.LPSettingsSchema
	case "recruit":
		schemaRel = schemas.RecruitSettingsSchema
	case "job":
		schemaRel = schemas.JobSchema
	default:
		return fmt.Errorf("unknown kind %q (want lp, recruit or job)", validateKind)
	}

	schemaPath := schemas.ResolveSchemaPath(schemaRel)
	if schemaPath == "" {
		return fmt.Errorf("schema file not found: %s", schemaRel)
	}

	if err := schemas.ValidateJSON(schemaPath, args[0]); err != nil {
		return err
	}
	fmt.Printf("%s is valid\n", args[0])
	return nil
}
