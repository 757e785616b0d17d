package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/todmy/pdf-eval/internal/analysis"
	"github.com/todmy/pdf-eval/internal/dataset"
	"github.com/todmy/pdf-eval/internal/report"
	"github.com/todmy/pdf-eval/internal/storage"
	"github.com/todmy/pdf-eval/pkg/models"
)

// statisticsFile is written next to the table files
const statisticsFile = "statistics.md"

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables <fileIn>",
		Short: "Print JHOVE vs veraPDF contingency tables for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.ReadCSVFile(args[0])
			if err != nil {
				return err
			}

			tables, err := analysis.NewService(analysis.DefaultConfig()).Tables(ds)
			if err != nil {
				return err
			}

			return printValidatorTables(cmd.OutOrStdout(), tables)
		},
	}
}

func printValidatorTables(w io.Writer, tables []analysis.NamedTable) error {
	first := true
	for _, nt := range tables {
		if nt.Table.RowField != models.FieldJhoveStatus {
			continue
		}
		if !first {
			if _, err := fmt.Fprint(w, "\n\n"); err != nil {
				return err
			}
		}
		first = false
		if _, err := fmt.Fprint(w, report.NamedTableMarkdown(nt)); err != nil {
			return err
		}
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		outDir               string
		xlsxPath             string
		continuityCorrection bool
		runID                string
	)

	cmd := &cobra.Command{
		Use:   "analyze <fileIn>",
		Short: "Write contingency tables and association statistics for a dataset",
		Long: `Write contingency tables and bias-corrected Cramer's V statistics for a
dataset produced by the run command.

Tables are written as Markdown files to the output directory together with
statistics.md. With --run-id the dataset is loaded from PostgreSQL
(DATABASE_URL) and fileIn may be omitted.`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), args, runID)
			if err != nil {
				return err
			}

			svc := analysis.NewService(analysis.Config{ContinuityCorrection: continuityCorrection})
			tables, err := svc.Tables(ds)
			if err != nil {
				return err
			}
			findings := svc.Statistics(ds)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			for _, nt := range tables {
				path := filepath.Join(outDir, nt.Name+".md")
				if err := os.WriteFile(path, []byte(report.NamedTableMarkdown(nt)), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
			}

			statistics := report.StatisticsMarkdown(findings)
			path := filepath.Join(outDir, statisticsFile)
			if err := os.WriteFile(path, []byte(statistics), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			if xlsxPath != "" {
				if err := report.WriteWorkbook(xlsxPath, tables, findings); err != nil {
					return err
				}
				log.Printf("Wrote workbook %s", xlsxPath)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), statistics)
			return err
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "directory for the Markdown output files")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write all tables and statistics to this workbook")
	cmd.Flags().BoolVar(&continuityCorrection, "continuity-correction", false, "apply Yates' correction to 2x2 tables")
	cmd.Flags().StringVar(&runID, "run-id", "", "load the dataset of this stored run instead of a CSV file")

	return cmd
}

// loadDataset reads the dataset from the CSV argument or, with a run ID,
// from PostgreSQL
func loadDataset(ctx context.Context, args []string, runID string) (models.Dataset, error) {
	if runID == "" {
		if len(args) == 0 {
			return models.Dataset{}, fmt.Errorf("either fileIn or --run-id is required")
		}
		return dataset.ReadCSVFile(args[0])
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("invalid run ID %q: %w", runID, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return models.Dataset{}, err
	}
	repo, db, err := openRepository(ctx, cfg)
	if err != nil {
		return models.Dataset{}, err
	}
	defer db.Close()

	return storage.LoadDataset(ctx, repo, id)
}
