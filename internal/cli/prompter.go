package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hunglv/expensive/internal/model"
	"github.com/hunglv/expensive/internal/validate"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Prompter asks questions on a terminal and reads the answers.
type Prompter struct {
	in     io.Reader
	reader *NonBlockingReader
	writer io.Writer
}

// NewPrompter creates a prompter. Nil arguments mean stdin and stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: in, reader: NewNonBlockingReader(in), writer: out}
}

// Writer is where prompts are printed.
func (p *Prompter) Writer() io.Writer {
	return p.writer
}

func (p *Prompter) prompt(label, def string) error {
	text := label
	if def != "" {
		text = fmt.Sprintf("%s [%s]", label, def)
	}
	_, err := fmt.Fprint(p.writer, FormatPrompt(text))
	return err
}

// Ask reads one answer. An empty answer yields def.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	if err := p.prompt(label, def); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskValid keeps asking until check accepts the answer.
func (p *Prompter) AskValid(ctx context.Context, label, def string, check func(string) validate.Result) (string, error) {
	for {
		answer, err := p.Ask(ctx, label, def)
		if err != nil {
			return "", err
		}
		res := check(answer)
		if res.IsValid {
			return answer, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatError(res.Message)); err != nil {
			return "", fmt.Errorf("failed to write error: %w", err)
		}
	}
}

// AskPassword reads a password without echo when attached to a terminal.
func (p *Prompter) AskPassword(ctx context.Context, label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.Ask(ctx, label, "")
	}

	if err := p.prompt(label, ""); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	raw, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(p.writer)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// Confirm asks a yes/no question. Anything but y/yes/có means no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "c", "có":
		return true, nil
	default:
		return false, nil
	}
}

// ChooseCategory lists the catalog and reads a category id. An empty
// answer keeps current.
func (p *Prompter) ChooseCategory(ctx context.Context, catalog []model.Category, current int) (int, error) {
	for _, c := range catalog {
		if _, err := fmt.Fprintf(p.writer, "  %2d  %s\n", c.ID, CategoryBadge(c)); err != nil {
			return 0, fmt.Errorf("failed to write categories: %w", err)
		}
	}

	def := ""
	if current != model.UncategorizedID {
		def = strconv.Itoa(current)
	}

	answer, err := p.AskValid(ctx, "Category", def, func(s string) validate.Result {
		id, err := strconv.Atoi(s)
		if err != nil {
			return validate.CategoryID(catalog, model.UncategorizedID)
		}
		return validate.CategoryID(catalog, id)
	})
	if err != nil {
		return 0, err
	}
	id, _ := strconv.Atoi(answer)
	return id, nil
}

// NewProgressBar returns a bar for a run of total items.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
