package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stolasapp/ende/internal/config"
	"github.com/stolasapp/ende/internal/fetch"
	"github.com/stolasapp/ende/internal/storage"
)

type configKey struct{}

// confirm asks a yes/no question, defaulting to no. The question is only
// shown when reading from a terminal.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if _, err := io.WriteString(cmd.ErrOrStderr(), question+" [y|N] "); err != nil {
			return false, err
		}
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

func loadConfig(ctx context.Context) (*config.Config, *slog.Logger, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, errors.New("config file resolution failed")
	}
	return cfg, slog.Default(), nil
}

func loadStore(ctx context.Context) (*config.Config, *slog.Logger, storage.Store, error) {
	cfg, logger, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := storage.NewDB(ctx, cfg.DBFilepath, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, store, nil
}

// inputFlags are the mutually exclusive sources of command input. Stdin is
// read when none is set. Input is used byte for byte unless trim is set.
type inputFlags struct {
	text string
	file string
	url  string
	trim bool
}

func (f *inputFlags) bind(cmd *cobra.Command, noun string) {
	cmd.Flags().StringVarP(&f.text, "input", "i", "", noun+" text")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the "+noun+" from a file")
	cmd.Flags().StringVarP(&f.url, "url", "u", "", "fetch the "+noun+" over HTTP")
	cmd.Flags().BoolVarP(&f.trim, "trim", "t", false, "drop one trailing newline from the "+noun)
	cmd.MarkFlagsMutuallyExclusive("input", "file", "url")
}

func (f *inputFlags) read(cmd *cobra.Command, logger *slog.Logger) (string, error) {
	text, err := f.readRaw(cmd, logger)
	if err != nil || !f.trim {
		return text, err
	}
	if trimmed, ok := strings.CutSuffix(text, "\n"); ok {
		return strings.TrimSuffix(trimmed, "\r"), nil
	}
	return text, nil
}

func (f *inputFlags) readRaw(cmd *cobra.Command, logger *slog.Logger) (string, error) {
	switch {
	case cmd.Flags().Changed("input"):
		return f.text, nil
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	case f.url != "":
		return fetch.New(logger).Fetch(cmd.Context(), f.url)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
}

// closeStore joins a close failure into the command's error.
func closeStore(store storage.Store, runErr *error) {
	if err := store.Close(); err != nil {
		*runErr = errors.Join(*runErr, err)
	}
}
