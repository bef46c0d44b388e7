//go:build integration
// +build integration

package util

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// BuildBinary compiles cmd/spacecheck into dir and returns the binary path.
func BuildBinary(ctx context.Context, dir string) (string, error) {
	bin := filepath.Join(dir, "spacecheck")
	build := exec.CommandContext(ctx, "go", "build", "-o", bin, "../cmd/spacecheck")
	if out, err := build.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w: %s", err, out)
	}
	return bin, nil
}
