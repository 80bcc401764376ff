package docker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/signalnine/solverbench/internal/docker"
)

func TestRunContainer(t *testing.T) {
	if os.Getenv("SOLVERBENCH_DOCKER_TESTS") == "" {
		t.Skip("set SOLVERBENCH_DOCKER_TESTS=1 to run Docker tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	outDir := t.TempDir()

	result, err := docker.RunContainer(ctx, zerolog.Nop(), &docker.RunOpts{
		Image:   "alpine:latest",
		Command: []string{"sh", "-c", "echo hello > /out/output.txt"},
		Mounts:  []docker.Mount{{Source: outDir, Target: "/out"}},
		Env:     map[string]string{"OUTPUT_DIR": "/out"},
		Timeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("RunContainer: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code: got %d, want 0", result.ExitCode)
	}
	if result.TimedOut {
		t.Error("unexpected timeout")
	}
	content, err := os.ReadFile(filepath.Join(outDir, "output.txt"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(content) != "hello\n" {
		t.Errorf("output: got %q, want %q", content, "hello\n")
	}
}

func TestRunContainerTimeout(t *testing.T) {
	if os.Getenv("SOLVERBENCH_DOCKER_TESTS") == "" {
		t.Skip("set SOLVERBENCH_DOCKER_TESTS=1 to run Docker tests")
	}
	ctx := context.Background()

	result, err := docker.RunContainer(ctx, zerolog.Nop(), &docker.RunOpts{
		Image:   "alpine:latest",
		Command: []string{"sleep", "300"},
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("RunContainer: %v", err)
	}
	if !result.TimedOut {
		t.Error("expected timeout")
	}
	if result.ExitCode != docker.TimeoutExitCode {
		t.Errorf("exit code: got %d, want %d", result.ExitCode, docker.TimeoutExitCode)
	}
}

func TestRunContainerCrash(t *testing.T) {
	if os.Getenv("SOLVERBENCH_DOCKER_TESTS") == "" {
		t.Skip("set SOLVERBENCH_DOCKER_TESTS=1 to run Docker tests")
	}
	ctx := context.Background()

	result, err := docker.RunContainer(ctx, zerolog.Nop(), &docker.RunOpts{
		Image:   "alpine:latest",
		Command: []string{"sh", "-c", "exit 1"},
		Timeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("RunContainer: %v", err)
	}
	if result.ExitCode != 1 {
		t.Errorf("exit code: got %d, want 1", result.ExitCode)
	}
}
