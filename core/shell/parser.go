package shell

import "strings"

// MaxProcArgs bounds the argument vector of a single stage. Tokens past the
// cap are silently dropped.
const MaxProcArgs = 24

// Proc describes one pipeline stage: the argument vector (command name
// first) and whether its stdin/stdout connect to the neighboring stages.
type Proc struct {
	Args    []string
	PipeIn  bool
	PipeOut bool

	// Created by the runner immediately before spawning, only when PipeOut
	// is set. Owned here until both ends are released.
	pipe *pipe
}

// Name returns the command name of the stage.
func (p *Proc) Name() string {
	return p.Args[0]
}

func (p *Proc) addToken(tok string) {
	if len(p.Args) < MaxProcArgs {
		p.Args = append(p.Args, tok)
	}
}

func isDelim(c byte) bool {
	return c == ' ' || c == ';' || c == '|'
}

// Parse splits one input line into pipeline stages. Delimiters are spaces,
// ';' and '|'; a ';' or '|' that closes a non-empty run of tokens emits a
// stage, and '|' additionally marks the stage as writing to a pipe and the
// next emitted stage as reading from it. Empty segments ("a ;; b") emit
// nothing. A trailing newline is ignored.
//
// Parse keeps no state between calls; parsing the same line twice yields
// structurally identical results.
func Parse(line string) []*Proc {
	line = strings.TrimSuffix(line, "\n")

	var (
		procs  []*Proc
		tokens []string
		pipeIn bool
	)

	emit := func(pipeOut bool) {
		if len(tokens) == 0 {
			return
		}
		p := &Proc{PipeIn: pipeIn, PipeOut: pipeOut}
		for _, tok := range tokens {
			p.addToken(tok)
		}
		procs = append(procs, p)
		tokens = nil
		pipeIn = pipeOut
	}

	start := -1 // first byte of the token being scanned, -1 between tokens
	for i := 0; i <= len(line); i++ {
		atEnd := i == len(line)
		if !atEnd && !isDelim(line[i]) {
			if start < 0 {
				start = i
			}
			continue
		}

		if start >= 0 {
			tokens = append(tokens, line[start:i])
			start = -1
		}
		// End of string closes the final stage like a ';' would.
		if atEnd || line[i] != ' ' {
			emit(!atEnd && line[i] == '|')
		}
	}

	return procs
}
