package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
)

// analyzeOptions holds the analyze command flags
type analyzeOptions struct {
	file      string
	meetingID string
	lang      string
	lexicon   string
	output    string
	pretty    bool
	verbose   bool
}

// AnalyzeCommandDeps holds the dependencies of the analyze command
type AnalyzeCommandDeps struct {
	ReadFile func(path string) ([]byte, error)
	Stdin    io.Reader
}

// DefaultAnalyzeDeps returns the default dependencies for production use
func DefaultAnalyzeDeps() *AnalyzeCommandDeps {
	return &AnalyzeCommandDeps{
		ReadFile: os.ReadFile,
		Stdin:    os.Stdin,
	}
}

// transcriptFile is the object form of an input file. A bare JSON array of
// utterances is accepted too.
type transcriptFile struct {
	MeetingID  string               `json:"meeting_id"`
	Language   string               `json:"language"`
	Utterances []entities.Utterance `json:"utterances"`
}

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand(deps *AnalyzeCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultAnalyzeDeps()
	}
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a meeting transcript offline",
		Long: `Analyze a meeting transcript offline with the rule lexicons.

The input is a JSON array of utterances, or an object with meeting_id,
language and utterances. Use --file - to read from stdin.

Examples:
  analyze --file standup.json --meeting-id standup-42
  analyze --file meeting.json --lang ko --pretty
  analyze --file meeting.json --lexicon custom.yaml -o yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, deps, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Utterance JSON file (- for stdin)")
	cmd.Flags().StringVar(&opts.meetingID, "meeting-id", "", "Meeting ID (overrides the file)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "Lexicon language: "+strings.Join(lexicon.NewRegistry().Languages(), ", "))
	cmd.Flags().StringVar(&opts.lexicon, "lexicon", "", "YAML lexicon file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "Output format: json, yaml")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline progress to stderr")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, deps *AnalyzeCommandDeps, opts *analyzeOptions) error {
	if opts.output != "json" && opts.output != "yaml" {
		return fmt.Errorf("unsupported output format %q", opts.output)
	}

	input, err := loadInput(deps, opts)
	if err != nil {
		return err
	}

	lexicons := lexicon.NewRegistry()
	lang := input.Language
	if opts.lang != "" {
		lang = opts.lang
	}
	if _, ok := lexicons.Get(lang); lang != "" && !ok && opts.lexicon == "" {
		return fmt.Errorf("no lexicon for language %q (available: %s)", lang, strings.Join(lexicons.Languages(), ", "))
	}
	lex := lexicons.Resolve(lang)
	if opts.lexicon != "" {
		if lex, err = lexicons.LoadFile(opts.lexicon); err != nil {
			return err
		}
	}
	input.Language = lex.Language

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()
	}

	res, err := analysis.NewResources(analysis.WithLexicon(lex), analysis.WithLogger(logger))
	if err != nil {
		return err
	}
	defer res.Close()

	result, err := analysis.NewDefaultOrchestrator(res).Analyze(cmd.Context(), input)
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), result.ResultData, opts)
}

func loadInput(deps *AnalyzeCommandDeps, opts *analyzeOptions) (*entities.AnalysisInput, error) {
	var data []byte
	var err error
	if opts.file == "-" {
		data, err = io.ReadAll(deps.Stdin)
	} else {
		data, err = deps.ReadFile(opts.file)
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var tf transcriptFile
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &tf.Utterances)
	} else {
		err = json.Unmarshal(trimmed, &tf)
	}
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}

	meetingID := tf.MeetingID
	if opts.meetingID != "" {
		meetingID = opts.meetingID
	}
	return &entities.AnalysisInput{
		MeetingID:  meetingID,
		Utterances: tf.Utterances,
		Language:   tf.Language,
	}, nil
}

func writeReport(w io.Writer, report interface{}, opts *analyzeOptions) error {
	if opts.output == "yaml" {
		// round trip through JSON so yaml keys follow the json tags
		raw, err := json.Marshal(report)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}
