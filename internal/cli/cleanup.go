package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/healthlog/internal/services"
)

type CleanupRunner interface {
	Run(ctx context.Context) services.CleanupResult
}

// RunCleanupCommand runs one retention pass and prints the result as JSON.
// A failed run is reported through the returned error so cron sees a
// non-zero exit status.
func RunCleanupCommand(ctx context.Context, out io.Writer, runner CleanupRunner) error {
	result := runner.Run(ctx)

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("write cleanup result: %w", err)
	}

	if !result.Success {
		if result.Error != "" {
			return fmt.Errorf("cleanup failed: %s", result.Error)
		}
		return errors.New("cleanup failed")
	}
	return nil
}
