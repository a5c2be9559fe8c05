package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/cate/internal/config"
	"github.com/zjrosen/cate/internal/encoding"
	"github.com/zjrosen/cate/internal/log"
	"github.com/zjrosen/cate/internal/render"
	"github.com/zjrosen/cate/internal/syntax"
	"github.com/zjrosen/cate/internal/termcolor"
)

// stdinName is the operand that stands for standard input.
const stdinName = "-"

// session is the validated, resolved form of the configuration for one run.
type session struct {
	dir        *syntax.Directory
	hint       *encoding.Encoding
	theme      syntax.Theme
	mode       termcolor.Mode
	numberMode render.NumberMode
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	if ok, _ := flags.GetBool("list-encodings"); ok {
		return encoding.WriteList(a.out)
	}

	dir, err := syntax.Default()
	if err != nil {
		return fmt.Errorf("loading syntax definitions: %w", err)
	}

	listThemes, _ := flags.GetBool("list-themes")
	listSyntaxes, _ := flags.GetBool("list-syntaxes")
	if listThemes || listSyntaxes {
		return a.writeLists(dir, listThemes, listSyntaxes)
	}

	if ok, _ := flags.GetBool("init-config"); ok {
		return a.initConfig()
	}

	// Everything is checked before the first byte of output.
	s, err := a.newSession(dir)
	if err != nil {
		return err
	}

	if ok, _ := flags.GetBool("save"); ok {
		return a.save(cmd)
	}

	out := &guardedWriter{w: a.out}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	stop := handleSignals(func() {
		cancel()
		tail := ""
		if s.mode != termcolor.Off {
			tail = "\x1b[0m"
		}
		out.finish(tail)
	})
	defer stop()

	if len(args) == 0 {
		args = []string{stdinName}
	}
	for i, path := range args {
		if i > 0 {
			// Blank line between files.
			if _, err := io.WriteString(out, "\n"); err != nil {
				if render.IsClosedSink(err) {
					return nil
				}
				return fmt.Errorf("writing output: %w", err)
			}
		}

		closed, err := a.catFile(ctx, out, s, path)
		if err != nil {
			return err
		}
		if closed {
			return nil
		}
	}
	return nil
}

func (a *app) newSession(dir *syntax.Directory) (*session, error) {
	if err := config.Validate(a.cfg, dir); err != nil {
		return nil, err
	}

	s := &session{dir: dir}
	if a.cfg.Encoding != "" {
		enc, err := encoding.Parse(a.cfg.Encoding)
		if err != nil {
			return nil, fmt.Errorf("encoding: %w", err)
		}
		s.hint = &enc
	}

	theme, err := dir.Theme(a.cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	s.theme = theme

	choice, err := termcolor.ParseChoice(a.cfg.Color)
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	s.mode = termcolor.ResolveMode(choice, a.stdoutIsTerminal(), a.environ)

	s.numberMode, err = render.ParseNumberMode(a.cfg.NumberMode)
	if err != nil {
		return nil, fmt.Errorf("number_mode: %w", err)
	}
	return s, nil
}

// catFile decodes and renders one operand. closed reports that the output
// went away and no more files should be written.
func (a *app) catFile(ctx context.Context, w io.Writer, s *session, path string) (closed bool, err error) {
	raw, err := a.readInput(path)
	if err != nil {
		return false, err
	}

	resolved := encoding.Resolve(raw, s.hint)
	text, lossy := encoding.Decode(raw, resolved)
	log.Debug(log.CatEncoding, "Final encoding",
		"path", path,
		"encoding", resolved.Encoding.Name,
		"confidence", resolved.Confidence,
		"bytes", len(raw))
	if lossy {
		log.Warn(log.CatEncoding, "Some characters could not be decoded", "path", path, "encoding", resolved.Encoding.Name)
	}

	opts := render.Options{
		Directory:   s.dir,
		Theme:       s.theme,
		Mode:        s.mode,
		Highlight:   a.cfg.Highlight,
		Language:    a.cfg.Language,
		LineNumbers: a.cfg.Number,
		NumberMode:  s.numberMode,
	}
	if path != stdinName {
		opts.Path = path
	}
	if opts.LineNumbers && opts.NumberMode == render.NumberDocument {
		opts.TotalLines = render.CountLines(text)
	}

	res, err := render.New(w, opts).Render(ctx, strings.NewReader(text))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return true, nil
		}
		return false, err
	}
	return res.SinkClosed, nil
}

func (a *app) readInput(path string) ([]byte, error) {
	if path == stdinName {
		log.Debug(log.CatInput, "Reading from stdin")
		raw, err := io.ReadAll(a.in)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return raw, nil
	}

	log.Debug(log.CatInput, "Reading file", "path", path)
	raw, err := os.ReadFile(path) //nolint:gosec // G304: reading user-named files is the point
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (a *app) save(cmd *cobra.Command) error {
	values := a.settingsFromFlags(cmd)
	if len(values) == 0 {
		return errors.New("nothing to save: pass settings such as --theme or --color with --save")
	}
	path := a.configPath()
	if path == "" {
		return errors.New("cannot determine config path: use --config")
	}
	if err := config.SaveSettings(path, values); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "Saved %d setting(s) to %s\n", len(values), path)
	return err
}
