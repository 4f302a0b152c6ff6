package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/odyssey-erp/itstock/internal/procurement"
	"github.com/odyssey-erp/itstock/internal/storage"
)

// ExportFormat selects how the final list is printed.
type ExportFormat string

const (
	// ExportFormatText prints the checkbox checklist.
	ExportFormatText ExportFormat = "text"
	// ExportFormatJSON prints the final list rows.
	ExportFormatJSON ExportFormat = "json"
)

// SnapshotLoader reads the persisted collections.
type SnapshotLoader interface {
	Load(ctx context.Context) storage.Snapshot
}

// ExportOptions configures the export command.
type ExportOptions struct {
	Loader SnapshotLoader
	Format ExportFormat
	Stdout io.Writer
	Stderr io.Writer
}

// ExportCommand prints the final shopping list built from the persisted items and manual
// list. It returns the process exit code.
func ExportCommand(ctx context.Context, opts ExportOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Format == "" {
		opts.Format = ExportFormatText
	}
	format := ExportFormat(strings.ToLower(string(opts.Format)))
	switch format {
	case ExportFormatText, ExportFormatJSON:
	default:
		fmt.Fprintf(opts.Stderr, "export: invalid format %q (expected text or json)\n", opts.Format)
		return 1
	}
	if opts.Loader == nil {
		fmt.Fprintln(opts.Stderr, "export: store not configured")
		return 1
	}

	snap := opts.Loader.Load(ctx)
	lines := procurement.BuildFinalList(procurement.DeriveLowStock(snap.Items), nil, snap.ManualList)

	if format == ExportFormatJSON {
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(lines); err != nil {
			fmt.Fprintf(opts.Stderr, "export: %v\n", err)
			return 1
		}
		return 0
	}
	if len(lines) == 0 {
		fmt.Fprintln(opts.Stderr, "export: shopping list is empty")
		return 0
	}
	fmt.Fprintln(opts.Stdout, procurement.FormatChecklist(lines))
	return 0
}
