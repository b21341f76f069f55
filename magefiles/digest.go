//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Digest builds the CLI and runs one digest cycle, writing the report
// into reports/ and the archive into archive/.
func Digest() error {
	mg.Deps(Build)

	bin := filepath.Join(binDir, binName)
	cmd := exec.Command(bin, "run", "--output-dir", "reports", "--archive-dir", "archive")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("digest run: %w", err)
	}
	return nil
}
