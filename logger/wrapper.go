package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
)

// Supervise runs executable with its stderr piped through this process.
// JSON log lines are forwarded as they are; a panic dump is collected and
// reported as one fatal log record once the child exits. It never returns.
func Supervise(executable string, arg ...string) {
	supervisorLogger := NewLogger("Logs supervisor")
	defer handlePanic(supervisorLogger)

	r, w, err := os.Pipe()
	if err != nil {
		supervisorLogger.Fatal().Err(err).Msg("Could not create pipe for logs")
		os.Exit(1)
	}

	cmd := exec.Command(executable, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = w

	if err = cmd.Start(); err != nil {
		supervisorLogger.Fatal().Err(err).Msg("Could not launch main process")
		os.Exit(1)
	}
	exitCodeCh := make(chan int)
	logsCh := make(chan []byte)

	go waitForCommandToExit(cmd, supervisorLogger, exitCodeCh)
	go collectLogs(r, supervisorLogger, logsCh)

	collector := panicCollector{out: os.Stderr, posLogger: supervisorLogger}
	for {
		select {
		case exitCode := <-exitCodeCh:
			handleExit(exitCode, collector.panicLogs.String(), supervisorLogger)
		case line := <-logsCh:
			collector.handleLine(line)
		}
	}
}

// panicCollector sorts child log lines: JSON goes to out, everything from
// the first "panic" line onwards is buffered.
type panicCollector struct {
	out        io.Writer
	posLogger  zerolog.Logger
	foundPanic bool
	panicLogs  strings.Builder
}

func (c *panicCollector) handleLine(line []byte) {
	text := string(line)
	if !c.foundPanic && strings.HasPrefix(text, "panic") {
		c.foundPanic = true
	}
	switch {
	case len(line) == 0:
	case c.foundPanic:
		c.panicLogs.WriteString(text)
		c.panicLogs.WriteByte('\n')
	case isJSON(line):
		_, _ = fmt.Fprintln(c.out, text)
	default:
		c.posLogger.Error().Msgf("Got log line that is not JSON formatted: '%s'", text)
	}
}

func waitForCommandToExit(cmd *exec.Cmd, posLogger zerolog.Logger, exitCodeCh chan<- int) {
	defer handlePanic(posLogger)
	err := cmd.Wait()
	if err == nil {
		exitCodeCh <- 0
		return
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		exitCodeCh <- 1
		return
	}
	exitCodeCh <- exitErr.ExitCode()
}

func collectLogs(r io.Reader, posLogger zerolog.Logger, logsCh chan<- []byte) {
	defer handlePanic(posLogger)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		logsCh <- line
	}
	if err := scanner.Err(); err != nil {
		posLogger.Fatal().Err(err).Msg("Error scanning piped main process's Stderr")
		os.Exit(1)
	}
}

func handleExit(exitCode int, panicLogs string, posLogger zerolog.Logger) {
	if exitCode == 0 {
		posLogger.Info().Msg("Exited with code 0")
	} else {
		posLogger.
			Fatal().
			Err(errors.New(panicLogs)).
			Msgf("Panicked and exited with code: %d", exitCode)
	}
	os.Exit(exitCode)
}

func handlePanic(posLogger zerolog.Logger) {
	r := recover()
	if r == nil {
		return
	}
	posLogger.Fatal().
		Caller().
		Str("error", fmt.Sprint(r)).
		Str("stack_trace", string(debug.Stack())).
		Msg("Program panicked and exited")
}

func isJSON(b []byte) bool {
	var js json.RawMessage
	err := json.Unmarshal(b, &js)
	return err == nil && js != nil
}
