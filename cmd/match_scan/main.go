package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"scanmem/display"
	"scanmem/process"
	"scanmem/process/memory_map"
	"scanmem/process_blob"
	"scanmem/scan"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to attach to")
	nameFlag := flag.String("name", "", "Process name to attach to, instead of --pid")
	fromFlag := flag.String("from", "", "Directory containing a dump to scan instead of a live process")
	saveFlag := flag.String("save", "", "Save a dump of the target to this directory before scanning")
	valueFlag := flag.Int64("value", 0, "Integer value to search for")
	roundsFlag := flag.Int("rounds", 1, "Number of passes, Enter starts each pass after the first")
	maxFlag := flag.Int("max", 50, "Maximum number of matches to list, 0 for all")
	colorFlag := flag.Bool("color", true, "Color the match listing")
	contextFlag := flag.Int("context", 0, "Hexdump this many bytes from the first match on")
	flag.Parse()

	os.Exit(run(options{
		pid:     *pidFlag,
		name:    *nameFlag,
		from:    *fromFlag,
		save:    *saveFlag,
		value:   *valueFlag,
		rounds:  *roundsFlag,
		limit:   *maxFlag,
		color:   *colorFlag,
		context: *contextFlag,
	}))
}

type options struct {
	pid     int
	name    string
	from    string
	save    string
	value   int64
	rounds  int
	limit   int
	color   bool
	context int
}

// run returns the exit code, the target is closed before main exits.
func run(opts options) int {
	target, closeTarget, err := openTarget(opts.pid, opts.name, opts.from)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		flag.Usage()
		return 1
	}
	defer closeTarget()

	if opts.save != "" {
		snap, err := process_blob.Snapshot(target, nil)
		if err != nil {
			fmt.Printf("Error reading target: %v\n", err)
			return 1
		}
		if proc, ok := target.(process.Process); ok {
			snap.PID = proc.GetPID()
		}
		snap.Name = opts.name
		if err := snap.Save(opts.save); err != nil {
			fmt.Printf("Error saving dump: %v\n", err)
			return 1
		}
		fmt.Printf("Dump saved to %s\n", opts.save)
	}

	session := scan.New(target)
	stdin := bufio.NewReader(os.Stdin)

	for round := range max(opts.rounds, 1) {
		if round > 0 {
			fmt.Printf("%d matches, press Enter for the next pass...", session.NumMatches())
			if _, err := stdin.ReadString('\n'); err != nil {
				break
			}
			if err := session.RefreshRegions(); err != nil {
				fmt.Printf("Error refreshing regions: %v\n", err)
				return 1
			}
		}

		if err := session.Search(scan.MatchInteger(opts.value)); err != nil {
			fmt.Printf("Error scanning: %v\n", err)
			return 1
		}
	}

	fmt.Printf("%d matches for %d\n", session.NumMatches(), opts.value)

	table := display.MatchTable(session.List(opts.limit), opts.color)
	if err := table.Render(os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if opts.context > 0 {
		if err := dumpFirstMatch(target, session, opts.context, opts.color); err != nil {
			fmt.Printf("Error: %v\n", err)
			return 1
		}
	}

	return 0
}

// dumpFirstMatch shows the target memory from the first match on as it is now.
func dumpFirstMatch(target process.Reader, session *scan.Session, size int, color bool) error {
	loc, ok := session.Nth(0)
	if !ok {
		return nil
	}

	addr := loc.Address()

	mm, err := target.GetMemoryMap()
	if err != nil {
		return err
	}
	memory_map.Sort(mm)
	start := dumpStart(addr, mm)

	data, err := target.ReadMemory(start, process.ProcessMemorySize(size))
	if len(data) == 0 {
		return fmt.Errorf("reading memory at %s: %w", start.ToString(), err)
	}

	fmt.Println()
	return display.Hexdump(os.Stdout, data, start, display.HexdumpOptions{
		Color: color,
		Mark: memory_map.AddressRange{
			Start: uint64(addr),
			End:   uint64(addr) + uint64(max(loc.Value().Flags.Width(), 1)),
		},
	})
}

func openTarget(pid int, name, from string) (process.Reader, func(), error) {
	if from != "" {
		dump, err := process_blob.Load(from)
		if err != nil {
			return nil, nil, fmt.Errorf("loading dump from %s: %w", from, err)
		}
		fmt.Printf("Loaded dump of %s (pid %d) from %s\n", dump.Name, dump.PID, from)
		return dump, func() {}, nil
	}

	if pid == 0 && name == "" {
		return nil, nil, fmt.Errorf("one of --pid, --name or --from is required")
	}

	proc, err := getProcess(pid, name)
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Attached to process %d\n", proc.GetPID())

	return proc, func() { proc.Close() }, nil
}

// dumpStart aligns addr down to a hexdump line without leaving its region.
func dumpStart(addr process.ProcessMemoryAddress, mm []memory_map.MemoryMapItem) process.ProcessMemoryAddress {
	start := addr &^ 0xf
	if item := memory_map.IsValidAddress2(uint64(addr), mm); item != nil && uint64(start) < item.Address {
		start = process.ProcessMemoryAddress(item.Address)
	}
	return start
}
