package physics

import (
	"bufio"
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDaemon(t *testing.T, input string) []string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Serve(strings.NewReader(input), &out))

	var lines []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestServe_EmptyInput_OnlyHandshake(t *testing.T) {
	lines := runDaemon(t, "")
	require.Len(t, lines, 1)
	assert.Equal(t, "READY", lines[0])
}

func TestServe_EvaluatesRequestLine(t *testing.T) {
	rMin := math.Pow(2, 1.0/6) * DefaultSigma
	req := EvalRequest{Structure: pair(rMin)}
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	lines := runDaemon(t, string(raw)+"\n")
	require.Len(t, lines, 2)

	var resp EvalResponse
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	require.NotNil(t, resp.Energy)
	assert.InDelta(t, -DefaultEpsilon, *resp.Energy, 1e-9)
	assert.Len(t, resp.Forces, 2)
	assert.Nil(t, resp.Error)
}

func TestServe_MalformedLine_InBandErrorThenRecovers(t *testing.T) {
	good, err := json.Marshal(EvalRequest{Structure: pair(3)})
	require.NoError(t, err)

	lines := runDaemon(t, "{not json\n"+string(good)+"\n")
	require.Len(t, lines, 3)

	var bad EvalResponse
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &bad))
	assert.Nil(t, bad.Energy)
	require.NotNil(t, bad.Error)

	var ok EvalResponse
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &ok))
	assert.NotNil(t, ok.Energy)
	assert.Nil(t, ok.Error)
}

func TestServe_BlankLinesIgnored(t *testing.T) {
	good, err := json.Marshal(EvalRequest{Structure: pair(3)})
	require.NoError(t, err)

	lines := runDaemon(t, "\n\n"+string(good)+"\n\n")
	assert.Len(t, lines, 2)
}
