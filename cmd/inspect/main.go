package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	persistlog "cellseed.ai/internal/persistence/log"
	"cellseed.ai/internal/persistence/snapshot"
	"cellseed.ai/internal/sim/catalogs"
	"cellseed.ai/internal/sim/coloring"
	"cellseed.ai/internal/sim/model"
	"cellseed.ai/internal/sim/seeding"
)

func main() {
	var (
		snapPath  = flag.String("snapshot", "", "path to population .snap.zst")
		configDir = flag.String("configs", "./configs", "config directory (cell_definitions.json)")
		eventsDir = flag.String("events", "", "events dir containing events-*.jsonl.zst (optional)")
		agents    = flag.Bool("agents", false, "print every agent with its colors")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot v%d run=%s seed=%d agents=%d templates=%d digest=%s\n",
		snap.Header.Version, snap.Header.RunID, snap.Seed, len(snap.Agents), len(snap.Templates), shortDigest(snap.CatalogDigest))

	reg, err := catalogs.Load(*configDir, model.Hooks{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "load cell definitions:", err)
		os.Exit(1)
	}
	if reg.Digest != snap.CatalogDigest {
		fmt.Fprintf(os.Stderr, "warning: cell definitions changed since the run (%s != %s)\n", shortDigest(reg.Digest), shortDigest(snap.CatalogDigest))
	}
	pop, err := snap.Restore(reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "restore population:", err)
		os.Exit(1)
	}

	counts := pop.CountByType()
	for _, t := range reg.Templates() {
		fmt.Printf("  type %-3d %-20s %d\n", t.Type, t.Name, counts[t.Type])
	}

	painter := coloring.NewPainter()
	fmt.Println("colors:")
	for _, c := range painter.Tally(pop.All()) {
		fmt.Printf("  %-14s %d\n", c.Color, c.N)
	}

	if *agents {
		for _, a := range pop.All() {
			col := painter.ColorOf(a)
			fmt.Printf("%6d %-16s %v dead=%v phase=%s colors=%s\n", a.ID, a.TypeName(), a.Pos, a.Dead, a.Phase, strings.Join(col[:], ","))
		}
	}

	if *eventsDir == "" {
		return
	}
	files, err := listEventFiles(*eventsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}
	kinds := map[string]int{}
	total := 0
	for _, path := range files {
		entries, err := persistlog.ReadSetupEntries(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read events:", err)
			os.Exit(1)
		}
		for _, e := range entries {
			if e.RunID != snap.Header.RunID {
				continue
			}
			kinds[e.Kind]++
			total++
		}
	}
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Printf("events: %d\n", total)
	for _, k := range names {
		fmt.Printf("  %-10s %d\n", k, kinds[k])
	}
	if created := kinds[seeding.EventPlaced] + kinds[seeding.EventImported]; created != len(snap.Agents) {
		fmt.Fprintf(os.Stderr, "event log covers %d agents, snapshot has %d\n", created, len(snap.Agents))
		os.Exit(1)
	}
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}
