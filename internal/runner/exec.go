package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
)

const (
	fallbackColumns = 80
	fallbackLines   = 24
)

// Shell runs the watched command as `Program Options... -c "<command>"`.
type Shell struct {
	Program string
	Options []string
}

// Command is a fully prepared child process invocation.
type Command struct {
	Program string
	Args    []string
	Env     []string
}

// Output is the captured result of one child process.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Executor runs one command to completion. A non-zero exit status is a normal
// Output; an error means the process could not be run at all.
type Executor func(ctx context.Context, cmd Command) (Output, error)

// TermSize reports the terminal size passed to the child.
type TermSize func() (width, height int)

// Exec is the default Executor backed by os/exec.
func Exec(ctx context.Context, c Command) (Output, error) {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Env = append(os.Environ(), c.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return Output{}, fmt.Errorf("run %s: %w", c.Program, err)
	}
	return Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

// StdoutSize reads the size of the controlling terminal, falling back to
// 80x24 when stdout is not a terminal.
func StdoutSize() (int, int) {
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 || h <= 0 {
		return fallbackColumns, fallbackLines
	}
	return w, h
}

func prepareCommand(goos string, command []string, shell *Shell) (string, []string) {
	if goos == "windows" && (shell == nil || shell.Program != "pwsh") {
		return "cmd", []string{"/C", strings.Join(command, " ")}
	}
	if shell != nil {
		args := slices.Clone(shell.Options)
		if !slices.Contains(args, "-c") {
			args = append(args, "-c")
		}
		return shell.Program, append(args, strings.Join(command, " "))
	}
	return command[0], slices.Clone(command[1:])
}

func buildCommand(command []string, shell *Shell, size TermSize) Command {
	program, args := prepareCommand(runtime.GOOS, command, shell)
	w, h := size()
	return Command{
		Program: program,
		Args:    args,
		Env: []string{
			"COLUMNS=" + strconv.Itoa(w),
			"LINES=" + strconv.Itoa(h),
		},
	}
}
