// Package gulp runs the external GULP lattice-energy simulator for one
// candidate parameter pair: write a templated input deck, execute the
// binary under a timeout, parse the total lattice energy back out. Each
// job leaves its rendered input in a per-job debug directory.
package gulp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds one simulator run.
const DefaultTimeout = 45 * time.Second

var (
	// ErrBinaryNotFound means no gulp executable is on PATH.
	ErrBinaryNotFound = errors.New("gulp: executable not found")
	// ErrEnergyNotFound means the run finished but no energy line was
	// present in the output.
	ErrEnergyNotFound = errors.New("gulp: total lattice energy not found in output")
)

// inputTemplate is the MgO Buckingham deck; A and rho are the tuned pair
// potential parameters for the Mg-O interaction.
const inputTemplate = `optimise conp properties
title
MgO_Active_Learning
end
cell
4.212 4.212 4.212 90 90 90
frac
Mg core 0.0 0.0 0.0
O core 0.5 0.5 0.5
species
Mg core 2.0
O core -2.0
buck
Mg core O core {{printf "%.4f" .A}} {{printf "%.4f" .Rho}} 0.0 0.0 10.0
O core O core 22764.0 0.149 27.88 0.0 10.0
coulomb
start
`

var inputTmpl = template.Must(template.New("gin").Parse(inputTemplate))

// Worker executes GULP jobs.
type Worker struct {
	Binary   string
	DebugDir string
	Timeout  time.Duration
}

// NewWorker resolves the gulp binary (from PATH when binary is empty) and
// prepares the debug directory root.
func NewWorker(binary, debugDir string) (*Worker, error) {
	if binary == "" {
		path, err := exec.LookPath("gulp")
		if err != nil {
			return nil, ErrBinaryNotFound
		}
		binary = path
	}
	if err := os.MkdirAll(debugDir, 0o755); err != nil {
		return nil, fmt.Errorf("gulp: create debug dir: %w", err)
	}
	return &Worker{Binary: binary, DebugDir: debugDir, Timeout: DefaultTimeout}, nil
}

// Run evaluates one (A, rho) candidate and returns the total lattice
// energy in eV plus the wall-clock time in milliseconds. A missing jobID
// gets a fresh UUID. Failures carry the simulator's output tail.
func (w *Worker) Run(ctx context.Context, a, rho float64, jobID string) (float64, float64, error) {
	if jobID == "" {
		jobID = uuid.NewString()
	}
	dir := filepath.Join(w.DebugDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("gulp: create job dir: %w", err)
	}
	ginPath, err := WriteInput(dir, a, rho)
	if err != nil {
		return 0, 0, err
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	in, err := os.Open(ginPath)
	if err != nil {
		return 0, 0, fmt.Errorf("gulp: open input: %w", err)
	}
	defer in.Close()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, w.Binary)
	cmd.Stdin = in
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsedMS := float64(time.Since(start).Microseconds()) / 1000.0

	if ctx.Err() == context.DeadlineExceeded {
		return 0, elapsedMS, fmt.Errorf("gulp: job %s timed out after %s: %w", jobID, timeout, ctx.Err())
	}
	out := stdout.String()
	if runErr != nil {
		return 0, elapsedMS, fmt.Errorf("gulp: job %s: %w\n%s", jobID, runErr, tail(out+stderr.String(), 500))
	}
	if strings.Contains(strings.ToLower(out), "error") || strings.Contains(out, "STOP") {
		return 0, elapsedMS, fmt.Errorf("gulp: job %s internal error:\n%s", jobID, tail(out, 500))
	}

	energy, err := ParseEnergy(out)
	if err != nil {
		return 0, elapsedMS, fmt.Errorf("%w (job %s):\n%s", err, jobID, tail(out, 500))
	}
	return energy, elapsedMS, nil
}

// WriteInput renders the Buckingham input deck into dir and returns its
// path. Exposed so file-based engine adapters can reuse the write phase
// without executing anything.
func WriteInput(dir string, a, rho float64) (string, error) {
	var buf bytes.Buffer
	if err := inputTmpl.Execute(&buf, struct{ A, Rho float64 }{A: a, Rho: rho}); err != nil {
		return "", fmt.Errorf("gulp: render input: %w", err)
	}
	path := filepath.Join(dir, "input.gin")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("gulp: write input: %w", err)
	}
	return path, nil
}

// ParseEnergy extracts the first "Total lattice energy" value from raw
// simulator output. Exposed as the parse phase of the file-based adapter.
func ParseEnergy(output string) (float64, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Total lattice energy") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		v, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("gulp: non-finite energy %v", v)
		}
		return v, nil
	}
	return 0, ErrEnergyNotFound
}

// tail returns at most the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
