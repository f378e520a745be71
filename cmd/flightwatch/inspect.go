package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/flightwatch/internal/exitcode"
	"github.com/gyeh/flightwatch/internal/model"
	"github.com/gyeh/flightwatch/internal/parquetread"
)

var inspectFile string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Validate and summarize a downloaded state-vector Parquet file (no writes)",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "Path to Parquet file (required)")
	_ = inspectCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	_, log, err := loadConfig()
	if err != nil {
		cmd.PrintErrln(err)
		os.Exit(exitcode.UsageError)
	}

	reader, err := parquetread.Open(inspectFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to open parquet file")
		os.Exit(exitcode.StorageFailed)
	}
	defer reader.Close()

	if err := parquetread.ValidateSchema(reader.Schema()); err != nil {
		log.Error().Err(err).Msg("schema validation failed")
		os.Exit(exitcode.StorageFailed)
	}

	var (
		total      int64
		airborne   int64
		withCoords int64
		aircraft   = make(map[string]bool)
	)
	buf := make([]model.StateRow, 1024)
	for {
		n, readErr := reader.Read(buf)
		for _, row := range buf[:n] {
			total++
			aircraft[row.ICAO24] = true
			if !row.OnGround {
				airborne++
			}
			if row.Longitude != nil && row.Latitude != nil {
				withCoords++
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Error().Err(readErr).Msg("failed to read parquet rows")
			os.Exit(exitcode.StorageFailed)
		}
	}

	fmt.Printf("File: %s\n", inspectFile)
	fmt.Printf("Rows: %d (%d distinct aircraft)\n", total, len(aircraft))
	fmt.Printf("Airborne: %d, with position: %d\n", airborne, withCoords)
	return nil
}
