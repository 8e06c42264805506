package shell

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleCommand(t *testing.T) {
	procs := Parse("echo hello\n")
	require.Len(t, procs, 1)
	assert.Equal(t, []string{"echo", "hello"}, procs[0].Args)
	assert.False(t, procs[0].PipeIn)
	assert.False(t, procs[0].PipeOut)
}

func TestParsePipelinePairsFlags(t *testing.T) {
	procs := Parse("echo hello | wc -c")
	require.Len(t, procs, 2)

	assert.Equal(t, []string{"echo", "hello"}, procs[0].Args)
	assert.False(t, procs[0].PipeIn)
	assert.True(t, procs[0].PipeOut)

	assert.Equal(t, []string{"wc", "-c"}, procs[1].Args)
	assert.True(t, procs[1].PipeIn)
	assert.False(t, procs[1].PipeOut)
}

func TestParseSequence(t *testing.T) {
	procs := Parse("echo a ; echo b")
	require.Len(t, procs, 2)
	for _, p := range procs {
		assert.False(t, p.PipeIn)
		assert.False(t, p.PipeOut)
	}
}

func TestParseSeparatorsOnly(t *testing.T) {
	for _, line := range []string{"", "\n", "   ", ";", ";;;", " | ; | "} {
		assert.Empty(t, Parse(line), "line %q", line)
	}
}

func TestParseSkipsEmptySegments(t *testing.T) {
	procs := Parse("echo a ;; echo b")
	require.Len(t, procs, 2)
	assert.Equal(t, []string{"echo", "a"}, procs[0].Args)
	assert.Equal(t, []string{"echo", "b"}, procs[1].Args)
}

func TestParseNoSpacesAroundDelimiters(t *testing.T) {
	procs := Parse("echo hello|wc -c")
	require.Len(t, procs, 2)
	assert.True(t, procs[0].PipeOut)
	assert.True(t, procs[1].PipeIn)
}

func TestParseIdempotent(t *testing.T) {
	const line = "cat /etc/passwd | grep root ; echo done"
	assert.Equal(t, Parse(line), Parse(line))
}

func TestParseTruncatesArgsAtCap(t *testing.T) {
	fields := make([]string, 0, MaxProcArgs+6)
	fields = append(fields, "echo")
	for i := 0; i < MaxProcArgs+5; i++ {
		fields = append(fields, fmt.Sprintf("arg%d", i))
	}

	procs := Parse(strings.Join(fields, " "))
	require.Len(t, procs, 1)
	assert.Len(t, procs[0].Args, MaxProcArgs)
	assert.Equal(t, fields[:MaxProcArgs], procs[0].Args)
}

func TestParseTrailingPipe(t *testing.T) {
	// The consumer-less pipe is the runner's problem; the parser applies
	// its normal rules.
	procs := Parse("echo hi |")
	require.Len(t, procs, 1)
	assert.Equal(t, []string{"echo", "hi"}, procs[0].Args)
	assert.True(t, procs[0].PipeOut)
}

func TestParseGolden(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	cases := map[string]string{
		"single":   "echo hello",
		"pipeline": "cat /etc/passwd | grep root | wc -l",
		"sequence": "echo a ; echo b ; echo c",
		"mixed":    "ls | sort ; echo done",
	}

	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := json.MarshalIndent(Parse(line), "", "  ")
			require.NoError(t, err)
			g.Assert(t, name, append(out, '\n'))
		})
	}
}
