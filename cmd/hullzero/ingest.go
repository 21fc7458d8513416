package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hullzero/server/core/repository"
	"hullzero/server/core/service"
	"hullzero/server/database"
	"hullzero/server/ingest"
	"hullzero/server/utils/clock"
)

var (
	ingestVesselID string
	ingestKind     string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv>",
	Short: "Import a CSV of operational samples or maintenance events",
	Long: `Import operator-supplied telemetry into the HullZero database.

The CSV kind is chosen with --kind:
  samples      operational samples (timestamp, speed, fuel flow, environment)
  maintenance  maintenance events (cleanings, inspections, dockings)`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestVesselID, "vessel", "", "Vessel id the records belong to (required)")
	ingestCmd.Flags().StringVar(&ingestKind, "kind", "samples", "CSV kind: samples or maintenance")
	ingestCmd.MarkFlagRequired("vessel")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := database.Initialize(cfg.Database.Path); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	db := database.GetDB()
	vesselService := service.NewVesselService(
		repository.NewVesselRepository(db),
		repository.NewOperationalSampleRepository(db),
		repository.NewMaintenanceRepository(db),
		repository.NewInspectionRepository(db),
		repository.NewEventLogRepository(db),
		clock.Real(),
	)

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer file.Close()

	switch ingestKind {
	case "samples":
		samples, err := ingest.ReadSamples(file, ingestVesselID)
		if err != nil {
			return err
		}
		if err := vesselService.RecordSampleBatch(samples); err != nil {
			return err
		}
		fmt.Printf("Imported %d operational samples\n", len(samples))

	case "maintenance":
		events, err := ingest.ReadMaintenance(file, ingestVesselID)
		if err != nil {
			return err
		}
		for _, e := range events {
			if err := vesselService.RecordMaintenance(e); err != nil {
				return err
			}
		}
		fmt.Printf("Imported %d maintenance events\n", len(events))

	default:
		return fmt.Errorf("unknown CSV kind %q (want samples or maintenance)", ingestKind)
	}

	return nil
}
