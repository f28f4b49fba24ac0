package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"market-insights-service/internal/bootstrap"
	"market-insights-service/internal/records/core/domain"
	"market-insights-service/internal/records/core/usecase"
)

func (app *App) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [records.json]",
		Short: "Store a JSON array of records (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			console := app.console(cmd)

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open records: %w", err)
				}
				defer f.Close()
				in = f
			}

			var recs []domain.Record
			if err := json.NewDecoder(in).Decode(&recs); err != nil {
				return fmt.Errorf("decode records: %w", err)
			}

			cfg, stores, err := app.stores(cmd, true)
			if err != nil {
				return err
			}
			defer stores.Close()
			if stores.Repository == nil {
				return fmt.Errorf("import: %w (driver %s)", bootstrap.ErrReadOnlyStore, stores.Driver)
			}

			batch := usecase.BulkStoreRecordsInput{Records: make([]usecase.StoreRecordInput, len(recs))}
			for i, r := range recs {
				batch.Records[i] = usecase.StoreRecordInput{
					Timestamp:  r.Timestamp,
					Count:      r.Count,
					Attributes: r.Attributes,
					Values:     r.Values,
				}
			}

			loc, err := cfg.Dashboard.TimeLocation()
			if err != nil {
				return err
			}
			res, err := usecase.NewStoreRecordUseCase(stores.Repository, usecase.WithLocation(loc)).BulkStore(cmd.Context(), batch)
			if err != nil {
				if errors.Is(err, usecase.ErrInvalidRecord) || errors.Is(err, usecase.ErrFutureTime) {
					console.LogError("Nothing stored: %v", err)
				}
				return err
			}
			console.LogSuccess("%d records stored, %d duplicates skipped", res.Created, res.Duplicates)
			return nil
		},
	}
}
