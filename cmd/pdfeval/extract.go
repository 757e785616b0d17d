package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/todmy/pdf-eval/internal/extract"
	"github.com/todmy/pdf-eval/pkg/models"
)

const defaultSeparator = ","

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract single fields from JHOVE and veraPDF reports",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "jhove-status <file>",
			Short: "Print the validation status of a JHOVE report",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := extract.JhoveStatusFile(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
				return err
			},
		},
		newListCmd("jhove-annots", "Print the annotation subtypes of a JHOVE report", extract.JhoveAnnotationSubtypesFile),
		newListCmd("vera-annots", "Print the annotation subtypes of a veraPDF report", extract.VeraAnnotationSubtypesFile),
		newListCmd("vera-actions", "Print the action types of a veraPDF report", extract.VeraActionTypesFile),
		&cobra.Command{
			Use:   "vera-errors <file> [separator]",
			Short: "Print whether a veraPDF report has parse errors and logged warnings",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				outcome, err := extract.VeraParseOutcomeFile(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s\n",
					models.FlagOf(outcome.ParseErrorOccurred), separator(args), models.FlagOf(outcome.WarningOccurred))
				return err
			},
		},
	)

	return cmd
}

func newListCmd(use, short string, fn func(path string) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file> [separator]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := fn(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(values, separator(args)))
			return err
		},
	}
}

func separator(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return defaultSeparator
}
