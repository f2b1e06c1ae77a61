package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"rk-textiles/internal/app"
	"rk-textiles/internal/core"

	"github.com/shopspring/decimal"
)

// Usage lists the one-shot commands.
const Usage = `Usage: app <command>

  stock                          list the inventory ledger
  low-stock                      list items below the low-stock threshold
  check <fabric_type> <meters>   check whether an order could be placed
  bills-summary                  totals across all bills
  export sales|inventory <file>  write a report workbook (.xlsx)
  seed                           load the demo dataset`

// ErrUsage is returned when the arguments do not name a valid command.
var ErrUsage = errors.New("invalid command")

// Run executes a one-shot CLI command, writing human-readable output to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "stock":
		result, err := svc.ListInventory(ctx, core.InventoryFilter{})
		if err != nil {
			return fmt.Errorf("failed to list inventory: %w", err)
		}
		printItems(out, "INVENTORY", result.Items)

	case "low-stock":
		result, err := svc.LowStock(ctx)
		if err != nil {
			return fmt.Errorf("failed to list low stock: %w", err)
		}
		printItems(out, "LOW STOCK", result.Items)

	case "check":
		if len(args) < 3 {
			return fmt.Errorf("%w: usage: app check <fabric_type> <meters>", ErrUsage)
		}
		meters, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("%w: meters must be a number, got %q", ErrUsage, args[2])
		}
		avail, err := svc.CheckAvailability(ctx, app.CheckAvailabilityRequest{FabricType: args[1], QuantityMeters: meters})
		if err != nil {
			return err
		}
		printAvailability(out, args[1], avail)

	case "bills-summary":
		summary, err := svc.BillSummary(ctx)
		if err != nil {
			return fmt.Errorf("failed to summarise bills: %w", err)
		}
		printBillSummary(out, summary)

	case "export":
		if len(args) < 3 {
			return fmt.Errorf("%w: usage: app export sales|inventory <file>", ErrUsage)
		}
		var data []byte
		var err error
		switch args[1] {
		case "sales":
			data, err = svc.ExportSalesReport(ctx, app.SalesReportRequest{})
		case "inventory":
			data, err = svc.ExportInventoryReport(ctx)
		default:
			return fmt.Errorf("%w: unknown report %q (want sales or inventory)", ErrUsage, args[1])
		}
		if err != nil {
			return fmt.Errorf("failed to export %s report: %w", args[1], err)
		}
		if err := os.WriteFile(args[2], data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[2], err)
		}
		fmt.Fprintf(out, "Wrote %s report to %s (%d bytes)\n", args[1], args[2], len(data))

	case "seed":
		res, err := svc.SeedDemoData(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		fmt.Fprintf(out, "Seeded %d customers, %d inventory items, %d mills.\n",
			res.Customers, res.InventoryItems, res.Mills)

	default:
		return fmt.Errorf("%w: %s", ErrUsage, args[0])
	}
	return nil
}

func printItems(out io.Writer, title string, items []core.InventoryItem) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	if len(items) == 0 {
		fmt.Fprintln(out, "  No items found.")
		fmt.Fprintln(out, strings.Repeat("=", 78))
		return
	}
	fmt.Fprintf(out, "  %-4s %-22s %-10s %12s %10s  %-12s %s\n", "ID", "FABRIC", "COLOR", "METERS", "RATE", "LEVEL", "LOCATION")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, it := range items {
		fmt.Fprintf(out, "  %-4d %-22s %-10s %12s %10s  %-12s %s\n",
			it.ID, it.FabricType, it.FabricColor,
			it.QuantityMeters.StringFixed(2), it.RatePerMeter.StringFixed(2),
			core.ClassifyStock(it.QuantityMeters), it.Location)
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

func printAvailability(out io.Writer, fabricType string, a *core.Availability) {
	if a.Available {
		fmt.Fprintf(out, "%s: available (%s meters in stock)\n", fabricType, a.AvailableQuantity.StringFixed(2))
		return
	}
	fmt.Fprintf(out, "%s: NOT available. %s\n", fabricType, a.Message)
}

func printBillSummary(out io.Writer, s *core.BillSummary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintln(out, "  BILLS SUMMARY")
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintf(out, "  %-22s %15d\n", "Total bills", s.TotalBills)
	fmt.Fprintf(out, "  %-22s %15s\n", "Total revenue", s.TotalRevenue.StringFixed(2))
	fmt.Fprintf(out, "  %-22s %15d\n", "Paid bills", s.PaidBills)
	fmt.Fprintf(out, "  %-22s %15d\n", "Pending bills", s.PendingBills)
	fmt.Fprintf(out, "  %-22s %15s\n", "Pending amount", s.PendingAmount.StringFixed(2))
	fmt.Fprintln(out, strings.Repeat("=", 40))
}
