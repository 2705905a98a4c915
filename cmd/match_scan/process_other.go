//go:build !linux

package main

import (
	"errors"

	"scanmem/process"
)

func getProcess(int, string) (process.Process, error) {
	return nil, errors.New("attaching to a live process is only supported on linux, use --from")
}
