package execution

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gsplit/internal/config"
	"gsplit/internal/domain"
	"gsplit/internal/parser"
)

//go:embed gsplit.init.gradle.kts
var initScript []byte

// Project properties read by the init script
const (
	PropWorkerID    = "gsplit.workerId"
	PropFilterMode  = "gsplit.filterMode"
	PropClassesFile = "gsplit.testClassesFile"
)

const maxLineSize = 1024 * 1024

// GradleBackend runs one Gradle build per dispatch spec
type GradleBackend struct {
	command string
	parser  parser.Parser
	logger  zerolog.Logger
	buildID func() string
}

// NewGradleBackend creates a new GradleBackend
func NewGradleBackend(cfg *config.Config, logger zerolog.Logger) *GradleBackend {
	return &GradleBackend{
		command: cfg.GradleCommand,
		parser:  parser.NewGradleEventParser(),
		logger:  logger,
		buildID: uuid.NewString,
	}
}

// Command returns the executable used for a project: the configured command,
// else the project's wrapper, else gradle from PATH.
func (b *GradleBackend) Command(projectPath string) string {
	if b.command != "" {
		return b.command
	}
	wrapper := filepath.Join(projectPath, "gradlew")
	if info, err := os.Stat(wrapper); err == nil && !info.IsDir() {
		return wrapper
	}
	return "gradle"
}

// Arguments returns the command line for spec, given the init script location
func (b *GradleBackend) Arguments(spec domain.DispatchSpec, scriptPath string) []string {
	args := append([]string{}, spec.Tasks...)
	args = append(args,
		"--continue",
		"--init-script", scriptPath,
		fmt.Sprintf("-P%s=%d", PropWorkerID, spec.WorkerID),
		fmt.Sprintf("-P%s=%s", PropFilterMode, spec.FilterMode),
	)
	if spec.FilterMode != domain.FilterNone {
		args = append(args, fmt.Sprintf("-P%s=%s", PropClassesFile, spec.FilterFile))
	}
	args = append(args, spec.Args...)
	return args
}

// Execute runs the build described by spec, streaming test events to sink
func (b *GradleBackend) Execute(ctx context.Context, spec domain.DispatchSpec, sink EventSink) domain.WorkerOutcome {
	start := time.Now()
	outcome := domain.WorkerOutcome{WorkerID: spec.WorkerID}
	log := b.logger.With().Int("worker", spec.WorkerID).Str("filter", spec.FilterMode.String()).Logger()

	fail := func(err error) domain.WorkerOutcome {
		outcome.Cause = fmt.Errorf("%w: %w", domain.ErrInfrastructure, err)
		outcome.Duration = time.Since(start)
		log.Error().Err(err).Msg("worker could not start")
		return outcome
	}

	scriptPath, err := b.prepare(spec)
	if err != nil {
		return fail(err)
	}

	var logOut io.Writer = io.Discard
	if spec.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(spec.LogPath), 0755); err != nil {
			return fail(fmt.Errorf("create log directory: %w", err))
		}
		f, err := os.Create(spec.LogPath)
		if err != nil {
			return fail(fmt.Errorf("create log file: %w", err))
		}
		defer f.Close()
		logOut = f
	}

	command := b.Command(spec.ProjectPath)
	args := b.Arguments(spec, scriptPath)
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = spec.ProjectPath
	cmd.Env = append(os.Environ(), "GSPLIT_WORKER_ID="+strconv.Itoa(spec.WorkerID))
	cmd.Stderr = logOut

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fail(err)
	}

	log.Debug().Str("command", command).Strs("args", args).Str("log", spec.LogPath).Msg("starting build")
	if err := cmd.Start(); err != nil {
		return fail(fmt.Errorf("start %s: %w", command, err))
	}

	buildID := b.buildID()
	records := b.consume(stdout, logOut, spec.WorkerID, buildID, sink, log)
	waitErr := cmd.Wait()

	outcome.Records = records
	outcome.Duration = time.Since(start)
	outcome.Succeeded = waitErr == nil
	if waitErr != nil {
		outcome.Cause = buildError(ctx, waitErr)
		if len(records) == 0 {
			outcome.Cause = fmt.Errorf("%w: %w", domain.ErrInfrastructure, outcome.Cause)
		}
	}

	log.Debug().
		Bool("succeeded", outcome.Succeeded).
		Int("records", len(records)).
		Dur("duration", outcome.Duration).
		Msg("build finished")
	return outcome
}

// prepare writes the init script and the class filter file for spec
func (b *GradleBackend) prepare(spec domain.DispatchSpec) (string, error) {
	dir := spec.ScratchDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "gsplit-")
		if err != nil {
			return "", fmt.Errorf("create scratch directory: %w", err)
		}
		dir = tmp
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}

	scriptPath := filepath.Join(dir, fmt.Sprintf("gsplit-%d.init.gradle.kts", spec.WorkerID))
	if err := os.WriteFile(scriptPath, initScript, 0644); err != nil {
		return "", fmt.Errorf("write init script: %w", err)
	}

	if spec.FilterMode == domain.FilterNone {
		return scriptPath, nil
	}
	if spec.FilterFile == "" {
		return "", fmt.Errorf("filter mode %s requires a filter file", spec.FilterMode)
	}
	if err := os.MkdirAll(filepath.Dir(spec.FilterFile), 0755); err != nil {
		return "", fmt.Errorf("create filter directory: %w", err)
	}
	content := strings.Join(spec.FilterClasses, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(spec.FilterFile, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write filter file: %w", err)
	}
	return scriptPath, nil
}

// consume copies build output to the log and collects finished test records
func (b *GradleBackend) consume(r io.Reader, logOut io.Writer, workerID int, buildID string, sink EventSink, log zerolog.Logger) []domain.TestRunRecord {
	var records []domain.TestRunRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(logOut, line)

		ev, ok, err := b.parser.ParseLine(line)
		if err != nil {
			log.Warn().Err(err).Msg("skipping malformed test event")
			continue
		}
		if !ok {
			continue
		}
		ev.WorkerID = workerID
		if ev.Record != nil {
			ev.Record.BuildID = buildID
			records = append(records, *ev.Record)
		}
		if sink != nil {
			sink(ev)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("reading build output failed")
		// Drain so the process does not block on a full pipe.
		io.Copy(logOut, r)
	}
	return records
}

func buildError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("gradle exited with code %d", exitErr.ExitCode())
	}
	return err
}
