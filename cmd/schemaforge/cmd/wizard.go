package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/TFMV/schemaforge/pkg/analyzer"
	"github.com/TFMV/schemaforge/pkg/clipboard"
	"github.com/TFMV/schemaforge/pkg/codegen"
	"github.com/TFMV/schemaforge/pkg/session"
)

const wizardHelp = `Commands:
  upload <file>        analyze a .json or .parquet file
  schema               show the analyzed schema
  select <field>       mark an array field for processing
  deselect <field>     unmark an array field
  table <name>         set the DataFrame name
  generate             generate Spark code
  copy <array|non-array>
                       copy a generated block to the clipboard
  status               show the current step
  reset                start over
  quit                 leave the wizard
`

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive upload, analyze and generate session",
	Long: `Walk through the three wizard steps interactively:

  upload -> analyze -> generate

A schema must be analyzed before code can be generated; reset returns to
the upload step and clears the session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := codegen.NewCache(viper.GetInt("cache.size"))
		if err != nil {
			return err
		}

		w := &wizard{
			state:    session.Initial(),
			analyzer: newAnalyzer(""),
			cache:    cache,
			clip:     clipboard.System{},
		}
		if err := w.apply(session.SetTable{Table: tableName()}); err != nil {
			return err
		}

		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			w.out = cmd.OutOrStdout()
			return w.run(cmd.Context(), scannerLines{bufio.NewScanner(cmd.InOrStdin())})
		}

		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() {
			if err := term.Restore(fd, oldState); err != nil {
				log.Error().Err(err).Msg("Failed to restore terminal")
			}
		}()

		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}, "schemaforge> ")
		w.out = t
		return w.run(cmd.Context(), t)
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}

type lineReader interface {
	ReadLine() (string, error)
}

type scannerLines struct {
	*bufio.Scanner
}

func (s scannerLines) ReadLine() (string, error) {
	if s.Scan() {
		return s.Text(), nil
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

type wizard struct {
	state    session.State
	analyzer *analyzer.Analyzer
	cache    *codegen.Cache
	clip     clipboard.Writer
	out      io.Writer
	result   *analyzer.Result
}

func (w *wizard) run(ctx context.Context, in lineReader) error {
	fmt.Fprint(w.out, "Data Analysis Tool\nUpload a JSON or Parquet file to analyze its schema and generate Spark code.\nType help for commands.\n")
	for {
		line, err := in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := w.handle(ctx, strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

func (w *wizard) apply(a session.Action) error {
	next, err := session.Reduce(w.state, a)
	if err != nil {
		return err
	}
	w.state = next
	return nil
}

func (w *wizard) notify(title, format string, args ...any) {
	fmt.Fprintf(w.out, "%s: %s\n", title, printer.Sprintf(format, args...))
}

func (w *wizard) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
	case "help", "?":
		fmt.Fprint(w.out, wizardHelp)
	case "quit", "exit":
		return true
	case "status":
		w.notify("Step", "%s (file %q, %d fields, %d selected, table %s)",
			w.state.Step, w.state.FileName, len(w.state.Fields), w.state.Selection.Len(), w.state.Table)
	case "upload":
		w.upload(ctx, arg)
	case "schema":
		if w.result == nil {
			w.notify("No schema", "upload a file first")
			return false
		}
		displaySchemaTable(w.out, w.result, w.state.Selection)
	case "select", "deselect":
		if err := w.apply(session.Toggle{Name: arg, Selected: cmd == "select"}); err != nil {
			w.notify("Selection failed", "%v", err)
			return false
		}
		w.notify("Selected", "%s", strings.Join(w.state.Selection.Names(), ", "))
	case "table":
		if err := w.apply(session.SetTable{Table: arg}); err != nil {
			w.notify("Table failed", "%v", err)
			return false
		}
		w.notify("Table", "%s", w.state.Table)
	case "generate":
		w.generate()
	case "copy":
		w.copy(arg)
	case "reset":
		if err := w.apply(session.Reset{}); err != nil {
			w.notify("Reset failed", "%v", err)
			return false
		}
		w.result = nil
		w.notify("Reset", "back to upload")
	default:
		w.notify("Unknown command", "%s (type help)", cmd)
	}
	return false
}

func (w *wizard) upload(ctx context.Context, path string) {
	if path == "" {
		w.notify("Upload failed", "missing file name")
		return
	}
	if err := w.apply(session.UploadStarted{FileName: path}); err != nil {
		w.notify("Upload rejected", "%v", err)
		return
	}

	res, err := w.analyzer.AnalyzeFile(ctx, path)
	if err != nil {
		if ferr := w.apply(session.UploadFailed{Err: err}); ferr != nil {
			log.Error().Err(ferr).Msg("Failed to record upload failure")
		}
		w.notify("Analysis failed", "%v", err)
		return
	}
	if err := w.apply(session.UploadSucceeded{FileName: res.FileName, Fields: res.Fields}); err != nil {
		w.notify("Analysis failed", "%v", err)
		return
	}

	w.result = res
	if res.Notice != "" {
		w.notify("Parquet Analysis", "%s", res.Notice)
	}
	w.notify("File analyzed successfully", "Found %d fields in %s", len(res.Fields), res.FileName)
}

func (w *wizard) generate() {
	if err := w.apply(session.Generate{}); err != nil {
		w.notify("Cannot generate", "%v", err)
		return
	}
	displayCode(w.out, w.cache.Generate(w.state.Fields, w.state.Selection, w.state.Table))
	w.notify("Code generated", "Generated Spark code for %d array fields", w.state.Selection.Len())
}

func (w *wizard) copy(block string) {
	if w.state.Step != session.StepGenerate {
		w.notify("Copy failed", "generate code first")
		return
	}
	code := w.cache.Generate(w.state.Fields, w.state.Selection, w.state.Table)
	text, label, err := pickBlock(code.Array, code.NonArray, block)
	if err != nil {
		w.notify("Copy failed", "%v", err)
		return
	}
	report := clipboard.Copy(w.clip, text, label)
	w.notify(report.Title, "%s", report.Message)
}
