//go:build linux

package process_linux

import (
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanmem/process"
)

// heap allocated so the address stays put while the test reads it
var ownMemory = make([]byte, 4096)

func TestReadOwnMemory(t *testing.T) {
	p, err := NewWithPID(process.ProcessID(os.Getpid()))
	require.NoError(t, err)
	defer p.Close()

	buf := ownMemory
	for i := range buf {
		buf[i] = byte(i * 7)
	}
	addr := process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&buf[0])))

	// the heap span may be newer than the map read by Open
	require.NoError(t, p.UpdateMemoryMap())
	require.True(t, p.IsValidAddress(addr))

	data, err := p.ReadMemory(addr, process.ProcessMemorySize(len(buf)))
	require.NoError(t, err)
	assert.Equal(t, buf, data)

	require.NoError(t, p.WriteMemory(addr+10, []byte{0xde, 0xad}))
	assert.Equal(t, []byte{0xde, 0xad}, buf[10:12])
}

func TestClosedProcess(t *testing.T) {
	p := New()

	_, err := p.ReadMemory(0x400000, 1)
	assert.ErrorIs(t, err, process.ErrProcessNotOpen)

	_, err = p.GetMemoryMap()
	assert.ErrorIs(t, err, process.ErrProcessNotOpen)

	assert.ErrorIs(t, p.UpdateMemoryMap(), process.ErrProcessNotOpen)
}

func TestOneByNameMissing(t *testing.T) {
	_, err := OneByName("no-such-process-name-xyz")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ListByName("")
	assert.Error(t, err)
}
