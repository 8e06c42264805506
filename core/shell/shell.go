package shell

import (
	"io"
	"os"

	"github.com/abiosoft/readline"
	"github.com/mattn/go-isatty"

	"github.com/tinyshell/tsh/core/config"
	"github.com/tinyshell/tsh/core/logger"
)

// Shell ties the readline loop, the parser, and the runner together.
type Shell struct {
	Config   *config.Configuration
	Readline *readline.Instance

	runner  *Runner
	log     *logger.SessionLogger
	toClose listCloser
}

// New builds an interactive shell reading from stdin. Interactive terminals
// and redirected input behave identically; terminal detection only enables
// line editing.
func New(cfg *config.Configuration) (*Shell, error) {
	rlCfg := &readline.Config{
		Prompt: cfg.Prompt,
		Stdin:  readline.NewCancelableStdin(os.Stdin),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		FuncIsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd())
		},
	}
	if cfg.HistoryFile != "" {
		rlCfg.HistoryFile = cfg.HistoryFile
	}
	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	sh := &Shell{Config: cfg, Readline: rl}

	if cfg.LogExec {
		fd, err := cfg.OpenExecLog()
		if err != nil {
			rl.Close()
			return nil, err
		}
		sh.toClose = append(sh.toClose, fd)
		sh.log = logger.NewJSONLinesLogRecorder(fd).NewSession()
	}

	sh.runner = &Runner{
		QuitCommand: cfg.QuitCommand,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Log:         sh.log,
	}

	return sh, nil
}

// Run reads and executes command lines until the quit command, end of
// input, or a fatal pipe/spawn error.
func (s *Shell) Run() error {
	for {
		line, err := s.Readline.Readline()
		switch {
		case err == io.EOF:
			return nil // input closed, quit

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			return err
		}

		procs := Parse(line)
		if len(procs) == 0 {
			continue // nothing but separators, re-prompt
		}
		s.log.PipelineStart(line, len(procs))

		quit, err := s.runner.Run(procs)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (s *Shell) Close() error {
	var lastErr error
	if err := s.Readline.Close(); err != nil {
		lastErr = err
	}
	if err := s.toClose.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
