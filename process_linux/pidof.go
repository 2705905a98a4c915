//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"scanmem/process"
)

// ListByName returns the PIDs of all processes whose comm or exe basename
// equals name, like pidof. The match is case-sensitive.
func ListByName(name string) ([]process.ProcessID, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	selfPID := os.Getpid()
	var out []process.ProcessID

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		if pid == selfPID {
			continue
		}

		comm, _ := os.ReadFile(filepath.Join("/proc", e.Name(), "comm"))
		if string(bytesTrimNL(comm)) == name {
			out = append(out, process.ProcessID(pid))
			continue
		}

		// may fail for zombies or without permission
		exe, _ := os.Readlink(filepath.Join("/proc", e.Name(), "exe"))
		if exe != "" && filepath.Base(exe) == name {
			out = append(out, process.ProcessID(pid))
		}
	}

	return out, nil
}

// OneByName returns the lowest PID for name, or os.ErrNotExist if none.
func OneByName(name string) (process.ProcessID, error) {
	pids, err := ListByName(name)
	if err != nil {
		return 0, err
	}
	if len(pids) == 0 {
		return 0, fmt.Errorf("no process named %q: %w", name, os.ErrNotExist)
	}

	lowest := pids[0]
	for _, pid := range pids[1:] {
		if pid < lowest {
			lowest = pid
		}
	}
	return lowest, nil
}

func bytesTrimNL(b []byte) []byte {
	// comm ends with a newline
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
