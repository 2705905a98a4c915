package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"scanmem/process"
	"scanmem/process/memory_map"
)

// Load reads a process dump directory: metadata.json, process_memory_map.json
// and one blob_0x<address>_<size>.bin file per saved region. Regions whose
// blob is missing were not saved and are left out of the memory map.
func Load(dirname string) (*Memory, error) {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata struct {
		PID  process.ProcessID `json:"pid"`
		Name string            `json:"name"`
	}
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, "process_memory_map.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read memory map: %w", err)
	}

	var memoryMap []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &memoryMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory map: %w", err)
	}

	m := NewMemory()
	m.PID = metadata.PID
	m.Name = metadata.Name

	for _, region := range memoryMap {
		filename := filepath.Join(dirname, blobName(region))
		data, err := os.ReadFile(filename)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read blob %s: %w", filename, err)
		}

		if err := m.Map(process.ProcessMemoryAddress(region.Address), data, region.Perms); err != nil {
			return nil, fmt.Errorf("blob %s: %w", filename, err)
		}
	}

	return m, nil
}

// Save writes m in the format read by Load.
func (m *Memory) Save(dirname string) error {
	if err := os.MkdirAll(dirname, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	metadata := struct {
		PID  process.ProcessID `json:"pid"`
		Name string            `json:"name"`
	}{
		PID:  m.PID,
		Name: m.Name,
	}

	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, "metadata.json"), metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	memoryMap := make([]memory_map.MemoryMapItem, len(m.blobs))
	for i, b := range m.blobs {
		memoryMap[i] = b.item
		if err := os.WriteFile(filepath.Join(dirname, blobName(b.item)), b.data, 0644); err != nil {
			return fmt.Errorf("failed to write memory file for region at %x: %w", b.item.Address, err)
		}
	}

	mmJSON, err := json.MarshalIndent(memoryMap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, "process_memory_map.json"), mmJSON, 0644); err != nil {
		return fmt.Errorf("failed to write memory map file: %w", err)
	}

	return nil
}

func blobName(region memory_map.MemoryMapItem) string {
	return fmt.Sprintf("blob_0x%x_%d.bin", region.Address, region.Size)
}
