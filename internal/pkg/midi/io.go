package midi

import (
	"fmt"
	"os"
	"strings"
)

const soundDir = "/dev/snd"

// DetectDevices lists raw MIDI device nodes.
func DetectDevices() ([]IODevice, error) {
	return detectDevices(soundDir)
}

func detectDevices(dir string) ([]IODevice, error) {
	fd, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening %s failed: %w", dir, err)
	}
	defer fd.Close()

	entries, err := fd.ReadDir(0)
	if err != nil {
		return nil, fmt.Errorf("listing %s failed: %w", dir, err)
	}

	var devices = make([]IODevice, 0)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if strings.HasPrefix(entry.Name(), "midi") {
			devices = append(devices, IODevice{path: fmt.Sprintf("%s/%s", dir, entry.Name())})
		}
	}

	return devices, nil
}

type IODevice struct {
	path string
}

func (d *IODevice) Path() string {
	return d.path
}

func (d *IODevice) Open() (*os.File, error) {
	return os.OpenFile(d.path, os.O_RDWR|os.O_SYNC, 0)
}
