package main

import (
	"fmt"

	"scanmem/process"
	"scanmem/process_linux"
)

func getProcess(pid int, name string) (process.Process, error) {
	if name != "" {
		found, err := process_linux.OneByName(name)
		if err != nil {
			return nil, err
		}
		pid = int(found)
	}

	proc, err := process_linux.NewWithPID(process.ProcessID(pid))
	if err != nil {
		return nil, fmt.Errorf("attaching to process %d: %w", pid, err)
	}
	return proc, nil
}
