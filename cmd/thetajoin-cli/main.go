package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/querylabs/thetajoin"
	"github.com/querylabs/thetajoin/internal/rel"
	"github.com/querylabs/thetajoin/internal/version"
)

func customUsage() {
	fmt.Fprintf(os.Stderr, "thetajoin CLI (version %s)\n\n", version.Version)
	fmt.Fprintf(os.Stderr, "Usage: thetajoin-cli [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --demo\n\t\tRun a small join demo\n")
	fmt.Fprintf(os.Stderr, "  --join TYPE\n\t\tJoin type for the demo: inner, left, right, full (default: inner)\n")
	fmt.Fprintf(os.Stderr, "  -v, --version\n\t\tPrint version information and exit\n")
	fmt.Fprintf(os.Stderr, "  -h, --help\n\t\tShow this help message and exit\n")
}

func main() {
	versionFlag := flag.Bool("v", false, "Print version and exit")
	flag.BoolVar(versionFlag, "version", false, "Print version and exit") // alias
	demoFlag := flag.Bool("demo", false, "Run a small join demo")
	joinFlag := flag.String("join", "inner", "Join type for the demo")

	//nolint:reassign // Standard Go pattern for customizing flag usage message
	flag.Usage = customUsage

	flag.Parse()

	if *versionFlag {
		fmt.Print(version.Info().String())
		return
	}

	if *demoFlag {
		if err := runDemo(*joinFlag); err != nil {
			log.Fatalf("demo failed: %v", err)
		}
		return
	}

	flag.Usage()
}

func parseJoinType(name string) (thetajoin.JoinType, error) {
	switch name {
	case "inner":
		return thetajoin.InnerJoin, nil
	case "left":
		return thetajoin.LeftJoin, nil
	case "right":
		return thetajoin.RightJoin, nil
	case "full":
		return thetajoin.FullOuterJoin, nil
	default:
		return 0, fmt.Errorf("unknown join type %q", name)
	}
}

// runDemo joins a tiny users table against an orders table on user id,
// keeping only orders above a threshold via the residual predicate.
func runDemo(joinName string) error {
	joinType, err := parseJoinType(joinName)
	if err != nil {
		return err
	}

	users := thetajoin.Shape{arrow.PrimitiveTypes.Int64, arrow.BinaryTypes.String}
	orders := thetajoin.Shape{arrow.PrimitiveTypes.Int64, arrow.PrimitiveTypes.Float64}

	// users.id == orders.user_id AND orders.amount > 100
	cond := thetajoin.Col(0).Eq(thetajoin.Col(2)).
		And(thetajoin.Col(3).Gt(thetajoin.Lit(100.0)))

	spec, err := thetajoin.NewSpec(joinType, users, orders, cond)
	if err != nil {
		return err
	}
	fmt.Println(spec)

	left := thetajoin.NewSliceSource([]thetajoin.Row{
		{int64(1), "alice"},
		{int64(2), "bob"},
		{int64(3), "carol"},
	})
	right := thetajoin.NewSliceSource([]thetajoin.Row{
		{int64(1), 250.0},
		{int64(1), 40.0},
		{int64(2), 120.0},
		{int64(4), 500.0},
	})

	exec := spec.Execute(left, right, thetajoin.ExecOptions{})
	rows, err := thetajoin.Collect(exec)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Println(rel.FormatRow(row))
	}
	stats := exec.Stats()
	fmt.Printf("build=%d probe=%d emitted=%d\n", stats.BuildRows, stats.ProbeRows, stats.Emitted)
	return nil
}
