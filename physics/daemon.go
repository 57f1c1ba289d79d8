package physics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// EvalRequest is one line of the evaluator protocol.
type EvalRequest struct {
	Structure Structure `json:"structure"`
}

// EvalResponse mirrors the host's expected schema. Error is set in-band on
// per-request failures; the daemon itself keeps running.
type EvalResponse struct {
	Energy *float64     `json:"energy"`
	Forces [][3]float64 `json:"forces"`
	Stress *string      `json:"stress"`
	Error  *string      `json:"error"`
}

// Serve runs the line-oriented evaluator loop: a READY handshake, then one
// JSON request per line answered with one JSON response line. Malformed or
// failing requests produce an in-band error response and never end the
// loop; only a transport failure (closed pipe) returns.
func Serve(r io.Reader, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "READY"); err != nil {
		return fmt.Errorf("physics: handshake: %w", err)
	}

	enc := json.NewEncoder(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp EvalResponse
		var req EvalRequest
		if err := json.Unmarshal(line, &req); err != nil {
			logrus.Warnf("evaluator: bad request: %v", err)
			msg := err.Error()
			resp.Error = &msg
		} else {
			e, f := LennardJones(req.Structure, DefaultEpsilon, DefaultSigma)
			resp.Energy = &e
			resp.Forces = f
		}

		if err := enc.Encode(&resp); err != nil {
			return fmt.Errorf("physics: write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("physics: read request: %w", err)
	}
	return nil
}
