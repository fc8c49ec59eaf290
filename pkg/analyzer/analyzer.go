// Package analyzer is the upload boundary: it dispatches a file on its
// extension, reads it and infers its schema.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/TFMV/schemaforge/pkg/infer"
	"github.com/TFMV/schemaforge/pkg/parquet"
	"github.com/TFMV/schemaforge/pkg/schema"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .json nor .parquet.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrParse is returned when the file content cannot be turned into a schema.
	ErrParse = errors.New("failed to analyze file")
	// ErrBusy is returned when an analysis is already in progress.
	ErrBusy = errors.New("analysis already in progress")
)

// Format identifies how a file is analyzed.
type Format string

const (
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// DetectFormat maps a file name to its Format by extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".parquet":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
}

// Result is a successful analysis.
type Result struct {
	FileName  string
	Format    Format
	Fields    []schema.Field
	Notice    string // set when the schema is not derived from the file content
	RootArray bool   // the JSON root is a list of records
}

// Summary is the one-line success message for the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("Found %d fields in %s", len(r.Fields), r.FileName)
}

// Options configure an Analyzer.
type Options struct {
	ParquetReader parquet.SchemaReader
	Query         string
}

// Option is a functional option for the Analyzer.
type Option func(*Options)

// WithParquetReader sets the reader used for .parquet files.
func WithParquetReader(r parquet.SchemaReader) Option {
	return func(o *Options) {
		o.ParquetReader = r
	}
}

// WithQuery sets a jq expression selecting the JSON subtree to analyze.
func WithQuery(expression string) Option {
	return func(o *Options) {
		o.Query = expression
	}
}

// Analyzer turns uploaded files into schemas. It runs one analysis at a time
// and rejects uploads that arrive while one is pending.
type Analyzer struct {
	opts    Options
	loading atomic.Bool
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	options := Options{ParquetReader: parquet.Stub{}}
	for _, opt := range opts {
		opt(&options)
	}
	if options.ParquetReader == nil {
		options.ParquetReader = parquet.Stub{}
	}
	return &Analyzer{opts: options}
}

// AnalyzeFile opens path and analyzes it. The extension is checked before the
// file is opened.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return a.Analyze(ctx, filepath.Base(path), f, st.Size())
}

// Analyze infers the schema of the named content.
func (a *Analyzer) Analyze(ctx context.Context, name string, r io.ReaderAt, size int64) (res *Result, err error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	if !a.loading.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.loading.Store(false)

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Str("file", name).Msg("Schema inference panicked")
			res, err = nil, fmt.Errorf("%w: %v", ErrParse, p)
		}
	}()

	switch format {
	case FormatJSON:
		res, err = a.analyzeJSON(name, r, size)
	case FormatParquet:
		res, err = a.analyzeParquet(ctx, name, r, size)
	}
	if err != nil {
		log.Debug().Err(err).Str("file", name).Str("format", string(format)).Msg("Analysis failed")
		return nil, err
	}

	log.Debug().
		Str("file", name).
		Str("format", string(format)).
		Int("fields", len(res.Fields)).
		Msg("Analyzed file")
	return res, nil
}

func (a *Analyzer) analyzeJSON(name string, r io.ReaderAt, size int64) (*Result, error) {
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var root infer.Value
	if a.opts.Query != "" {
		root, err = infer.Query(a.opts.Query, data)
	} else {
		root, err = infer.ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return &Result{
		FileName:  name,
		Format:    FormatJSON,
		Fields:    infer.Infer(root, ""),
		RootArray: root.Kind == infer.ValueArray,
	}, nil
}

func (a *Analyzer) analyzeParquet(ctx context.Context, name string, r io.ReaderAt, size int64) (*Result, error) {
	pr, err := a.opts.ParquetReader.ReadSchema(ctx, r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Result{
		FileName: name,
		Format:   FormatParquet,
		Fields:   pr.Fields,
		Notice:   pr.Notice,
	}, nil
}
