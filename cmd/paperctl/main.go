// Command paperctl manages the paper trading portfolio from the terminal.
// It works directly against the SQLite store, so it needs no running server
// or Redis: events stay on an in-process bus.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"papertradev1/config"
	"papertradev1/internal/bus"
	"papertradev1/internal/catalog"
	"papertradev1/internal/desk"
	"papertradev1/internal/model"
	"papertradev1/internal/money"
	"papertradev1/internal/portfolio"
	"papertradev1/internal/store/sqlite"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&summaryCmd{}, "")
	commander.Register(&positionsCmd{}, "")
	commander.Register(&strategiesCmd{}, "")
	commander.Register(&addCmd{}, "")
	commander.Register(&closeCmd{}, "")
	commander.Register(&capitalCmd{}, "")
	commander.Register(&resetCmd{}, "")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// openDesk wires a desk service over the local store. The caller must close
// the returned store.
func openDesk() (*desk.Service, *sqlite.Store, error) {
	cfg := config.Load()
	store, err := sqlite.New(sqlite.StoreConfig{DBPath: cfg.SQLitePath})
	if err != nil {
		return nil, nil, err
	}
	svc := desk.New(store, bus.NewLocal(), catalog.New(), nil, cfg.BaseCapital, nil)
	return svc, store, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// --- summaryCmd ---

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print the capital ledger summary" }
func (*summaryCmd) Usage() string {
	return `paperctl summary

Prints base, adjusted, allocated and available capital plus booked and
active P&L.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, store, err := openDesk()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	sum, err := svc.Summary()
	if err != nil {
		return fail(err)
	}
	printSummary(sum)
	return subcommands.ExitSuccess
}

func printSummary(sum portfolio.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Base capital\t%s\n", money.INR(sum.BaseCapital))
	fmt.Fprintf(w, "Booked P&L\t%s\n", money.Signed(sum.BookedPnL))
	fmt.Fprintf(w, "Active P&L\t%s\n", money.Signed(sum.ActivePnL))
	fmt.Fprintf(w, "Adjusted capital\t%s\n", money.INR(sum.AdjustedCapital))
	fmt.Fprintf(w, "Allocated\t%s\n", money.INR(sum.AllocatedCapital))
	fmt.Fprintf(w, "Available\t%s\n", money.INR(sum.AvailableCapital))
	fmt.Fprintf(w, "Utilization\t%s%%\n", sum.UtilizationPct.Round(2))
	fmt.Fprintf(w, "Overall ROI\t%s%%\n", sum.OverallROI.Round(2))
	fmt.Fprintf(w, "Positions\t%d open / %d closed\n", sum.OpenPositions, sum.ClosedPositions)
	w.Flush()
}

// --- positionsCmd ---

type positionsCmd struct {
	all bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list portfolio positions" }
func (*positionsCmd) Usage() string {
	return `paperctl positions [-all]

Lists active positions. With -all, closed positions are included.
`
}
func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "include closed positions")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, store, err := openDesk()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	positions, err := svc.Positions()
	if err != nil {
		return fail(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYMBOL\tSTRATEGY\tQTY\tENTRY\tP&L\tSTATUS")
	shown := 0
	for i := range positions {
		p := &positions[i]
		if !c.all && !p.IsActive() {
			continue
		}
		var pnl decimal.Decimal
		if p.IsActive() {
			pnl = portfolio.ComputeActivePnL(p)
		} else {
			pnl = portfolio.ComputePnL(p)
		}
		status := "active"
		if !p.IsActive() {
			status = "closed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ID, p.Symbol, p.StrategyName, p.Quantity, p.EntryPrice, money.Signed(pnl), status)
		shown++
	}
	w.Flush()
	if shown == 0 {
		fmt.Println("No positions.")
	}
	return subcommands.ExitSuccess
}

// --- strategiesCmd ---

type strategiesCmd struct {
	segment string
}

func (*strategiesCmd) Name() string     { return "strategies" }
func (*strategiesCmd) Synopsis() string { return "list catalog strategies" }
func (*strategiesCmd) Usage() string {
	return `paperctl strategies [-segment equity|fno]

Lists the advisory catalog for a segment (default equity).
`
}
func (c *strategiesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.segment, "segment", "equity", "trading segment (equity or fno)")
}

func (c *strategiesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, store, err := openDesk()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	list := svc.Strategies(model.Segment(c.segment))
	if len(list) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no strategies for segment %q\n", c.segment)
		return subcommands.ExitUsageError
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYMBOL\tSTRATEGY\tRISK\tCONF\tPER UNIT")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
			s.ID, s.Symbol, s.StrategyName, s.RiskLevel, s.Confidence, money.INR(s.PerUnitCost()))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

// --- addCmd ---

type addCmd struct {
	strategy string
	quantity int64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a position for a catalog strategy" }
func (*addCmd) Usage() string {
	return `paperctl add -strategy <id> [-qty N]

Opens a paper position. Without -qty the sizing advisor picks the quantity
for the strategy's risk level.
`
}
func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "", "catalog strategy ID (see 'paperctl strategies')")
	f.Int64Var(&c.quantity, "qty", 0, "quantity; 0 asks the sizing advisor")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.strategy == "" {
		fmt.Fprintln(os.Stderr, "Error: -strategy flag is required.")
		return subcommands.ExitUsageError
	}
	svc, store, err := openDesk()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	qty := c.quantity
	if qty <= 0 {
		advice, err := svc.Suggest(c.strategy)
		if err != nil {
			return fail(err)
		}
		qty = advice.SuggestedQuantity
		fmt.Printf("Advisor suggests %d units (%s allocation at %s per unit)\n",
			qty, advice.AllocationPct.Mul(decimal.NewFromInt(100)).Round(0).String()+"%",
			money.INR(advice.CapitalPerUnit))
	}

	ack, err := svc.Add(ctx, c.strategy, qty)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Filled %s: %d x %s at %s (capital %s)\n",
		ack.Position.ID, ack.Position.Quantity, ack.Position.Symbol,
		money.INR(ack.FillPrice), money.INR(ack.Position.TotalCapitalRequired))
	return subcommands.ExitSuccess
}

// --- closeCmd ---

type closeCmd struct {
	id string
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close an active position" }
func (*closeCmd) Usage() string {
	return `paperctl close -id <position_id>

Books the position at its latest mark. Closing is permanent.
`
}
func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "position ID (see 'paperctl positions')")
}

func (c *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id flag is required.")
		return subcommands.ExitUsageError
	}
	svc, store, err := openDesk()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	closed, err := svc.Close(ctx, c.id)
	if err != nil {
		return fail(err)
	}
	pnl := portfolio.ComputePnL(&closed)
	fmt.Printf("Closed %s at %s, booked %s\n", closed.ID, money.INR(closed.ExitPrice), money.Signed(pnl))
	return subcommands.ExitSuccess
}

// --- capitalCmd ---

type capitalCmd struct {
	add string
	set string
}

func (*capitalCmd) Name() string     { return "capital" }
func (*capitalCmd) Synopsis() string { return "add to or replace the base capital" }
func (*capitalCmd) Usage() string {
	return `paperctl capital [-add AMOUNT | -set AMOUNT]

With no flags, prints the current base capital.
`
}
func (c *capitalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "amount to add to the base capital")
	f.StringVar(&c.set, "set", "", "amount to replace the base capital with")
}

func (c *capitalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, store, err := openDesk()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	switch {
	case c.add != "":
		amount, err := decimal.NewFromString(c.add)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", c.add)
			return subcommands.ExitUsageError
		}
		newBase, err := svc.AddCapital(ctx, amount)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Base capital is now %s\n", money.INR(newBase))
	case c.set != "":
		amount, err := decimal.NewFromString(c.set)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", c.set)
			return subcommands.ExitUsageError
		}
		if err := svc.SetCapital(ctx, amount); err != nil {
			return fail(err)
		}
		fmt.Printf("Base capital is now %s\n", money.INR(amount))
	default:
		sum, err := svc.Summary()
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Base capital: %s\n", money.INR(sum.BaseCapital))
	}
	return subcommands.ExitSuccess
}

// --- resetCmd ---

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "wipe all positions and capital" }
func (*resetCmd) Usage() string {
	return `paperctl reset -yes

Deletes every position and restores the default base capital.
`
}
func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm the wipe")
}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Error: pass -yes to confirm wiping the portfolio.")
		return subcommands.ExitUsageError
	}
	svc, store, err := openDesk()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	if err := svc.Reset(ctx); err != nil {
		return fail(err)
	}
	fmt.Println("Portfolio reset.")
	return subcommands.ExitSuccess
}
