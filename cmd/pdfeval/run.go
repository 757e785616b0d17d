package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/todmy/pdf-eval/internal/batch"
	"github.com/todmy/pdf-eval/internal/validators"
)

func newRunCmd() *cobra.Command {
	var (
		existingOutput bool
		usePdfcpu      bool
		skipMalformed  bool
		store          bool
		jhoveBin       string
		veraPDFBin     string
	)

	cmd := &cobra.Command{
		Use:   "run <dirIn> <dirOut>",
		Short: "Run JHOVE and veraPDF on every PDF in dirIn and write data.csv to dirOut",
		Long: `Run JHOVE and veraPDF on all files with a .pdf extension in dirIn.

Reports are written to dirOut as <name>-jhove.xml and <name>-vera.xml and the
extracted outcomes are collected in dirOut/data.csv.

Validator locations are read from JHOVE_BIN and VERAPDF_BIN (environment or
.env) unless given as flags.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if jhoveBin != "" {
				cfg.JhoveBin = jhoveBin
			}
			if veraPDFBin != "" {
				cfg.VeraPDFBin = veraPDFBin
			}

			var opts []batch.Option
			if store {
				repo, db, err := openRepository(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				opts = append(opts, batch.WithRepository(repo))
			}

			svc := batch.NewService(batch.Config{
				DirIn:          args[0],
				DirOut:         args[1],
				ExistingOutput: existingOutput,
				Pdfcpu:         usePdfcpu,
				SkipMalformed:  skipMalformed,
			}, validators.NewJhove(cfg.JhoveBin), validators.NewVeraPDF(cfg.VeraPDFBin), opts...)

			res, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d files written to %s\n", res.RunID, res.Dataset.Len(), res.CSVPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&existingOutput, "existingoutput", "e", false, "don't run JHOVE and veraPDF, but use existing output")
	cmd.Flags().BoolVar(&usePdfcpu, "pdfcpu", false, "also validate every file with pdfcpu")
	cmd.Flags().BoolVar(&skipMalformed, "skip-malformed", false, "skip files whose reports cannot be read")
	cmd.Flags().BoolVar(&store, "store", false, "store the rows in PostgreSQL under the run ID")
	cmd.Flags().StringVar(&jhoveBin, "jhove-bin", "", "JHOVE executable (overrides JHOVE_BIN)")
	cmd.Flags().StringVar(&veraPDFBin, "verapdf-bin", "", "veraPDF executable (overrides VERAPDF_BIN)")

	return cmd
}
