package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/gsmeac/internal/nav"
	"github.com/calvinalkan/gsmeac/internal/store"
)

const historyFile = ".wizard_history"

var errUnterminatedQuote = errors.New("unterminated quote")

// prompter reads one line of wizard input.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// linePrompter is the liner-backed prompter used on a real stdin.
type linePrompter struct {
	state   *liner.State
	history string
}

func newLinePrompter(history string, complete liner.Completer) *linePrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(complete)

	if f, err := os.Open(history); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return &linePrompter{state: state, history: history}
}

func (p *linePrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	return line, err
}

func (p *linePrompter) AppendHistory(line string) {
	p.state.AppendHistory(line)
}

func (p *linePrompter) Close() error {
	if f, err := os.Create(p.history); err == nil {
		_, _ = p.state.WriteHistory(f)
		_ = f.Close()
	}

	return p.state.Close()
}

// scanPrompter reads lines from any reader and echoes nothing. Tests and
// piped input use it.
type scanPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *scanPrompter) Prompt(prompt string) (string, error) {
	_, _ = io.WriteString(p.out, prompt)

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return p.scanner.Text(), nil
}

func (p *scanPrompter) AppendHistory(string) {}

func (p *scanPrompter) Close() error { return nil }

// splitLine splits a wizard line into words. Single or double quotes group
// words; there are no escapes.
func splitLine(line string) ([]string, error) {
	var (
		words []string
		cur   strings.Builder
		quote rune
		inArg bool
	)

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				words = append(words, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, errUnterminatedQuote
	}

	if inArg {
		words = append(words, cur.String())
	}

	return words, nil
}

func (a *app) wizardCmd() *Command {
	return &Command{
		Flags: newFlags("wizard"),
		Usage: "wizard [section]",
		Short: "Walk through the plan interactively",
		Long: `Walk through the plan section by section. Every command works inside
the wizard without the "gsmeac" prefix (for example: set trip.tripName
"Ridge loop", next, gear check "First aid kit"). Type help for the list and
quit to leave. Changes are saved as you go.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 1 {
				return wantArgs(args, 1, "wizard [section]")
			}

			if len(args) == 1 {
				if !nav.Valid(args[0]) {
					return fmt.Errorf("%w: %q", nav.ErrInvalidSection, args[0])
				}

				a.deepLink = args[0]
			}

			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			commands := a.commands()
			names := make([]string, 0, len(commands)+3)

			for _, c := range commands {
				if c.Name() != "wizard" {
					names = append(names, c.Name())
				}
			}

			names = append(names, "help", "quit")

			if o.In() == nil {
				return errors.New("wizard needs an input stream")
			}

			var p prompter
			if f, ok := o.In().(*os.File); ok && f == os.Stdin {
				p = newLinePrompter(filepath.Join(a.cfg.PlanDirAbs, historyFile), completer(names))
			} else {
				p = &scanPrompter{scanner: bufio.NewScanner(o.In()), out: o.Out()}
			}

			defer func() { _ = p.Close() }()

			// Debounced saves fail on a timer goroutine; the loop reports
			// them before the next prompt.
			saveErrs := make(chan error, 1)
			sess.OnStatus(func(status store.Status, err error) {
				if status != store.StatusError {
					return
				}

				select {
				case saveErrs <- err:
				default:
				}
			})

			hooks, err := sess.GoTo(sess.Current())
			if err != nil {
				return err
			}

			printEntry(o, sess, hooks)

			for ctx.Err() == nil {
				select {
				case err := <-saveErrs:
					o.Println(alertStyle.Render("! " + describe(err)))
				default:
				}

				line, err := p.Prompt(fmt.Sprintf("gsmeac(%s)> ", sess.Current()))
				if err != nil {
					if errors.Is(err, io.EOF) {
						o.Println()

						return nil
					}

					return fmt.Errorf("reading input: %w", err)
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}

				p.AppendHistory(line)

				words, err := splitLine(line)
				if err != nil {
					o.Println("error:", err)

					continue
				}

				switch words[0] {
				case "quit", "exit", "q":
					return nil
				case "help", "?":
					for _, c := range commands {
						if c.Name() != "wizard" {
							o.Println(c.HelpLine())
						}
					}

					continue
				case "wizard":
					o.Println("already in the wizard")

					continue
				}

				if !a.runInWizard(ctx, o, words) {
					o.Printf("Unknown command: %s (type 'help' for commands)\n", words[0])
				}
			}

			return nil
		},
	}
}

// runInWizard runs one command line against the open session. Commands are
// built fresh so their flags start from defaults. It reports whether the
// command exists.
func (a *app) runInWizard(ctx context.Context, o *IO, words []string) bool {
	for _, c := range a.commands() {
		if c.Name() == words[0] {
			sub := NewIO(nil, o.out, o.errOut)
			c.Run(ctx, sub, words[1:])

			return true
		}
	}

	return false
}

func completer(names []string) liner.Completer {
	return func(line string) []string {
		var out []string

		if cmd, rest, ok := strings.Cut(line, " "); ok {
			if cmd == "goto" {
				for _, s := range nav.Sections() {
					if strings.HasPrefix(s, rest) {
						out = append(out, "goto "+s)
					}
				}
			}

			return out
		}

		lower := strings.ToLower(line)
		for _, n := range names {
			if strings.HasPrefix(n, lower) {
				out = append(out, n)
			}
		}

		return out
	}
}
