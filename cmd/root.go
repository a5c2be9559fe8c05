package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/cate/internal/config"
	"github.com/zjrosen/cate/internal/log"
	"github.com/zjrosen/cate/internal/termcolor"
)

var version = "dev"

// streams is the process I/O. Tests substitute buffers.
type streams struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	environ termenv.Environ
}

// app holds the state of one command invocation.
type app struct {
	streams
	v        *viper.Viper
	cfgFile  string
	cfg      config.Config
	closeLog func()
}

// configKeys maps config keys to the flags that override them.
var configKeys = map[string]string{
	"encoding":    "encoding",
	"theme":       "theme",
	"language":    "language",
	"color":       "color",
	"number":      "number",
	"number_mode": "number-mode",
}

func newRootCmd(s streams) *cobra.Command {
	a := &app{streams: s, v: viper.New()}

	cmd := &cobra.Command{
		Use:   "cate [flags] [FILE...]",
		Short: "cat with encoding detection and syntax highlighting",
		Long: `Print files to standard output, decoding legacy encodings to UTF-8 and
highlighting source code.

Input is decoded by byte-order mark, then as UTF-8 when valid, then with
--encoding, then with the system encoding. With no FILE, or when FILE is -,
standard input is read.

Examples:
  cate main.go
  cate -n -e gbk legacy.txt
  cate --color never notes.md > copy.md
  curl -s https://example.com/install.sh | cate -l bash`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		RunE: a.run,
		PostRun: func(cmd *cobra.Command, args []string) {
			if a.closeLog != nil {
				a.closeLog()
			}
		},
	}
	cmd.SetIn(s.in)
	cmd.SetOut(s.out)
	cmd.SetErr(s.errOut)
	cmd.SetVersionTemplate("cate {{.Version}}\n")

	defaults := config.Defaults()
	flags := cmd.Flags()
	cmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/cate/config.yaml)")
	flags.StringP("encoding", "e", "",
		"encoding for input that is not UTF-8 (see --list-encodings)")
	flags.BoolP("number", "n", false, "number output lines")
	flags.String("number-mode", defaults.NumberMode,
		"line number width: streaming (fixed, grows) or document (fits the line count)")
	flags.StringP("language", "l", "", "force a syntax instead of detecting it")
	flags.String("theme", defaults.Theme, "highlighting theme (see --list-themes)")
	flags.String("color", defaults.Color, "when to use colour: auto, always or never")
	flags.Bool("no-highlight", false, "disable syntax highlighting")
	flags.Bool("debug", false, "write debug logs to stderr")
	flags.Bool("list-encodings", false, "list supported encodings and exit")
	flags.Bool("list-themes", false, "list highlighting themes and exit")
	flags.Bool("list-syntaxes", false, "list supported syntaxes and exit")
	flags.Bool("init-config", false, "write a default config file and exit")
	flags.Bool("save", false, "save the given settings flags to the config file and exit")

	for key, flag := range configKeys {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

// loadConfig layers defaults, the config file, CATE_* environment variables
// and flags, in increasing precedence.
func (a *app) loadConfig(cmd *cobra.Command) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.InitWriter(a.errOut, log.LevelDebug)
	}

	defaults := config.Defaults()
	a.v.SetDefault("encoding", defaults.Encoding)
	a.v.SetDefault("theme", defaults.Theme)
	a.v.SetDefault("language", defaults.Language)
	a.v.SetDefault("color", defaults.Color)
	a.v.SetDefault("number", defaults.Number)
	a.v.SetDefault("number_mode", defaults.NumberMode)
	a.v.SetDefault("highlight", defaults.Highlight)
	a.v.SetDefault("debug_log", defaults.DebugLog)

	a.v.SetEnvPrefix("CATE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	path := a.configPath()
	if path != "" {
		a.v.SetConfigFile(path)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("reading config %s: %w", path, err)
			}
			log.Debug(log.CatConfig, "No config file", "path", path)
		} else {
			log.Debug(log.CatConfig, "Loaded config file", "path", path)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if noHighlight, _ := cmd.Flags().GetBool("no-highlight"); noHighlight {
		a.cfg.Highlight = false
	}

	if a.cfg.DebugLog != "" {
		closeLog, err := log.Init(a.cfg.DebugLog)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		a.closeLog = closeLog
	}

	return nil
}

// configPath is the -c path, or the per-user default.
func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return config.DefaultConfigPath()
}

// settingsFromFlags collects the explicitly given settings flags for --save.
func (a *app) settingsFromFlags(cmd *cobra.Command) map[string]any {
	values := make(map[string]any)
	flags := cmd.Flags()
	for key, flag := range configKeys {
		if !flags.Changed(flag) {
			continue
		}
		if key == "number" {
			values[key] = a.cfg.Number
		} else {
			values[key] = a.v.GetString(key)
		}
	}
	if flags.Changed("no-highlight") {
		values["highlight"] = a.cfg.Highlight
	}
	return values
}

func (a *app) initConfig() error {
	path := a.configPath()
	if path == "" {
		return errors.New("cannot determine config path: use --config")
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "Created config file at %s\n", filepath.Clean(path))
	return err
}

func (a *app) stdoutIsTerminal() bool {
	f, ok := a.out.(*os.File)
	return ok && termcolor.IsTerminal(f)
}

// Execute runs the root command against the process streams.
func Execute() error {
	cmd := newRootCmd(streams{
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		environ: termcolor.OSEnviron{},
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cate: %v\n", err)
		return err
	}
	return nil
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
