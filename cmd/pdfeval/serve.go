package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/todmy/pdf-eval/internal/analysis"
	"github.com/todmy/pdf-eval/internal/api"
	"github.com/todmy/pdf-eval/internal/dataset"
)

func newServeCmd() *cobra.Command {
	var (
		addr                 string
		continuityCorrection bool
	)

	cmd := &cobra.Command{
		Use:   "serve <fileIn>",
		Short: "Serve a dataset's tables and statistics over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ds, err := dataset.ReadCSVFile(args[0])
			if err != nil {
				return err
			}

			server := api.NewServer(api.ServerConfig{
				Dataset:  ds,
				Analysis: analysis.Config{ContinuityCorrection: continuityCorrection},
			})

			log.Printf("Serving %d rows from %s on %s", ds.Len(), args[0], cfg.Addr)
			return server.Run(cmd.Context(), cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	cmd.Flags().BoolVar(&continuityCorrection, "continuity-correction", false, "apply Yates' correction to 2x2 tables")

	return cmd
}
