// Command findpath runs one search against a collision archive and prints
// the resulting path, one "x y plane" tile per line.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/udisondev/tilepath/internal/archive"
	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/pathfinding"
	"github.com/udisondev/tilepath/internal/transport"
)

// pointList collects repeated -target flags.
type pointList []geo.Point

func (l *pointList) String() string {
	parts := make([]string, len(*l))
	for i, p := range *l {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

func (l *pointList) Set(s string) error {
	p, err := transport.ParsePoint(s)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

type options struct {
	archive     string
	transports  string
	start       string
	targets     pointList
	cutoff      time.Duration
	avoidWild   bool
	disableWild bool
	caps        transport.Capabilities
	quests      string
	asJSON      bool
}

func main() {
	var o options
	flag.StringVar(&o.archive, "archive", "data/collision-map.zip", "collision archive")
	flag.StringVar(&o.transports, "transports", "", "transport catalogue CSV (optional)")
	flag.StringVar(&o.start, "start", "", `start tile, "x y plane"`)
	flag.Var(&o.targets, "target", `target tile, "x y plane" (repeatable)`)
	flag.DurationVar(&o.cutoff, "cutoff", pathfinding.DefaultCutoff, "give up after this long without progress")
	flag.BoolVar(&o.avoidWild, "avoid-wilderness", false, "do not enter the wilderness unless the target is there")
	flag.BoolVar(&o.disableWild, "disable-wilderness", false, "refuse wilderness targets")
	flag.BoolVar(&o.caps.FairyRings, "fairy-rings", false, "fairy rings unlocked")
	flag.BoolVar(&o.caps.SpiritTrees, "spirit-trees", false, "spirit trees unlocked")
	flag.StringVar(&o.quests, "quests", "", "comma-separated completed quests")
	flag.BoolVar(&o.asJSON, "json", false, "print the full result as JSON")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(o, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "findpath:", err)
		os.Exit(1)
	}
}

func run(o options, out io.Writer) error {
	start, err := transport.ParsePoint(o.start)
	if err != nil {
		return fmt.Errorf("-start: %w", err)
	}
	if len(o.targets) == 0 {
		return errors.New("at least one -target is required")
	}
	if o.quests != "" {
		o.caps.Quests = strings.Split(o.quests, ",")
	}

	store, _, err := archive.Load(o.archive)
	if err != nil {
		return err
	}

	var records []transport.Record
	if o.transports != "" {
		if records, err = transport.LoadCSV(o.transports); err != nil {
			return err
		}
	}
	table, err := transport.NewCatalogue(records).Table(o.caps)
	if err != nil {
		return err
	}

	policy := pathfinding.DefaultPolicy()
	policy.Cutoff = o.cutoff
	policy.AvoidWilderness = o.avoidWild
	policy.DisableWilderness = o.disableWild

	pf, err := pathfinding.New(pathfinding.NewConfig(store, table, policy), start, o.targets)
	if err != nil {
		return err
	}
	res := pf.Run()

	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	for _, p := range res.Path {
		fmt.Fprintf(out, "%d %d %d\n", p.X, p.Y, p.Plane)
	}
	fmt.Fprintf(os.Stderr, "reason=%s reached=%t tiles=%d cost=%d expanded=%d elapsed=%s\n",
		res.Reason, res.Reached, len(res.Path), res.Cost, res.Expanded, res.Elapsed)
	return nil
}
