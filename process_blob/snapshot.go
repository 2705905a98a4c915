package process_blob

import (
	"fmt"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"scanmem/process"
)

// MaxSnapshotRegion is the largest region Snapshot copies
const MaxSnapshotRegion = 100 * 1024 * 1024

// Snapshot copies every readable region of r up to MaxSnapshotRegion bytes
// into a new Memory. Regions that cannot be read are skipped, a partial
// read keeps what was read. Skipped regions are logged to log, a nil log
// uses a "snapshot" logger.
func Snapshot(r process.Reader, log *logger.Logger) (*Memory, error) {
	if log == nil {
		log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "snapshot"))
	}

	mm, err := r.GetMemoryMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read memory map: %w", err)
	}

	m := NewMemory()
	saved := 0
	for _, region := range mm {
		if !region.IsReadable() {
			continue
		}

		if region.Size > MaxSnapshotRegion {
			log.Infoln("Skipping large region at", fmt.Sprintf("%x", region.Address),
				"(size:", region.Size/1024/1024, "MB)")
			continue
		}

		data, err := r.ReadMemory(process.ProcessMemoryAddress(region.Address), process.ProcessMemorySize(region.Size))
		if err != nil {
			log.Infoln("Failed to read memory region at", fmt.Sprintf("%x", region.Address), ":", err,
				"kept", len(data), "of", region.Size, "bytes")
		}
		if len(data) == 0 {
			continue
		}

		if err := m.Map(process.ProcessMemoryAddress(region.Address), data, region.Perms); err != nil {
			return nil, err
		}
		saved++
	}

	log.Infoln("Snapshot complete:", saved, "of", len(mm), "regions copied")

	return m, nil
}
