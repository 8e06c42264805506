package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/fatih/color"

	"github.com/tinyshell/tsh/core/logger"
)

// Colored in interactive terminals only; color disables itself elsewhere so
// scripted output stays byte-identical.
var diagColor = color.New(color.FgRed)

// pipe owns both endpoints of an OS pipe until they have been inherited by
// child processes. Every close goes through these methods so each endpoint
// is released exactly once.
type pipe struct {
	r, w *os.File
}

func newPipe() (*pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &pipe{r: r, w: w}, nil
}

func (p *pipe) closeRead() {
	if p.r != nil {
		p.r.Close()
		p.r = nil
	}
}

func (p *pipe) closeWrite() {
	if p.w != nil {
		p.w.Close()
		p.w = nil
	}
}

// Close releases whichever endpoints are still held.
func (p *pipe) Close() {
	p.closeRead()
	p.closeWrite()
}

// Runner executes parsed command lines as OS child processes.
type Runner struct {
	// QuitCommand ends the session when it appears as a stage's command
	// name. Exact match only.
	QuitCommand string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Optional execution log. Safe to leave nil.
	Log *logger.SessionLogger
}

// started is a spawned stage the parent has not waited on yet.
type started struct {
	cmd   *exec.Cmd
	proc  *Proc
	begin time.Time
}

// Run spawns the stages of one parsed line. Stages joined by a pipe run
// concurrently; at every sequence boundary (a stage that does not write to
// a pipe) the runner waits, in spawn order, for every child it has not yet
// collected. It returns quit=true when the quit command was reached; no
// process is spawned for that stage.
//
// A non-nil error means the shell's own process machinery failed (pipe
// creation or spawn) and the caller should terminate: a shell that cannot
// allocate descriptors cannot safely continue.
func (r *Runner) Run(procs []*Proc) (quit bool, err error) {
	var (
		pending []started
		prev    *Proc
	)

	wait := func() {
		for _, s := range pending {
			// Exit statuses are recorded but never inspected: a failing
			// stage must not affect the shell's control flow.
			_ = s.cmd.Wait()
			code := -1
			if s.cmd.ProcessState != nil {
				code = s.cmd.ProcessState.ExitCode()
			}
			r.Log.StageExit(s.proc.Args, s.cmd.Process.Pid, code, time.Since(s.begin))
		}
		pending = nil
	}

	for _, p := range procs {
		if p.Name() == r.QuitCommand {
			// An upstream stage may have opened a pipe expecting this
			// stage to read it; release both ends so nothing leaks.
			if prev != nil && prev.pipe != nil {
				prev.pipe.Close()
			}
			// Don't block the quit on an upstream chain that is still
			// running; reap it in the background.
			for _, s := range pending {
				go s.cmd.Wait()
			}
			return true, nil
		}

		if p.PipeOut {
			p.pipe, err = newPipe()
			if err != nil {
				if prev != nil && prev.pipe != nil {
					prev.pipe.Close()
				}
				return false, fmt.Errorf("pipe failed: %w", err)
			}
		}

		path, lookErr := exec.LookPath(p.Name())
		if lookErr != nil {
			if errors.Is(lookErr, exec.ErrNotFound) {
				diagColor.Fprintf(r.Stderr, "tsh: command not found: %s\n", p.Name())
			} else {
				diagColor.Fprintf(r.Stderr, "tsh: %v\n", lookErr)
			}
			r.releaseSkipped(p, prev)
			if !p.PipeOut {
				wait()
			}
			prev = p
			continue
		}

		cmd := exec.Command(path)
		cmd.Args = p.Args
		cmd.Stdin = r.Stdin
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
		if p.PipeIn && prev != nil && prev.pipe != nil {
			cmd.Stdin = prev.pipe.r
		}
		if p.PipeOut {
			cmd.Stdout = p.pipe.w
		}

		begin := time.Now()
		if err := cmd.Start(); err != nil {
			if prev != nil && prev.pipe != nil {
				prev.pipe.Close()
			}
			if p.pipe != nil {
				p.pipe.Close()
			}
			return false, fmt.Errorf("fork failed: %w", err)
		}

		// The child holds its own copies of the inherited endpoints now;
		// drop the parent's so readers can see EOF.
		if p.PipeIn && prev != nil && prev.pipe != nil {
			prev.pipe.Close()
		}

		pending = append(pending, started{cmd: cmd, proc: p, begin: begin})
		if !p.PipeOut {
			wait()
		}
		prev = p
	}

	// A trailing "cmd |" leaves a pipe nobody consumes. Close it so the
	// writer is not left blocked, then collect any stragglers.
	if prev != nil && prev.pipe != nil {
		prev.pipe.Close()
	}
	wait()

	return false, nil
}

// releaseSkipped keeps pipe hygiene intact for a stage that was never
// spawned: the upstream pipe is released as if the stage had consumed it,
// and the stage's own write end is closed so a downstream reader sees EOF
// instead of hanging. The read end stays open for the next stage.
func (r *Runner) releaseSkipped(p, prev *Proc) {
	if p.PipeIn && prev != nil && prev.pipe != nil {
		prev.pipe.Close()
	}
	if p.pipe != nil {
		p.pipe.closeWrite()
	}
}
