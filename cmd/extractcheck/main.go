// Command extractcheck runs one input through the extraction pipeline and
// prints the outcome. It exists for poking at real pages, videos, and
// files from a shell without embedding the library anywhere.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mintnote/extract"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	var (
		kind       string
		filePath   string
		configPath string
		llmBaseURL string
		llmModel   string
		llmKey     string
		langs      string
		language   string
		userAgent  string
		timeout    time.Duration
		asJSON     bool
		verbose    bool
	)

	flag.StringVar(&kind, "kind", "", "Skip classification and force an input kind (text, web, video, document_pdf, ...)")
	flag.StringVar(&filePath, "file", "", "Extract an on-disk file instead of a pasted input")
	flag.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for OpenAI-compatible server")
	flag.StringVar(&langs, "langs", "", "Comma-separated caption language preference, e.g. 'fi,en'")
	flag.StringVar(&language, "lang", "", "Language code reported when detection finds nothing")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for outbound fetches")
	flag.DurationVar(&timeout, "timeout", 0, "Per-request timeout (e.g. 30s); 0 uses the default")
	flag.BoolVar(&asJSON, "json", false, "Print the full result as JSON instead of plain text")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := extract.Config{
		AIBaseURL:       llmBaseURL,
		AIModel:         llmModel,
		AIAPIKey:        llmKey,
		UserAgent:       userAgent,
		RequestTimeout:  timeout,
		DefaultLanguage: language,
	}
	if s := strings.TrimSpace(langs); s != "" {
		for _, p := range strings.Split(s, ",") {
			if v := strings.TrimSpace(p); v != "" {
				cfg.PreferredLanguages = append(cfg.PreferredLanguages, v)
			}
		}
	}
	extract.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := extract.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file unreadable")
			os.Exit(1)
		}
		extract.ApplyFileConfig(&cfg, fc)
	}

	input := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(filePath) == "" && strings.TrimSpace(input) == "" {
		fmt.Fprintln(os.Stderr, "usage: extractcheck [flags] <url, file reference, or text>")
		fmt.Fprintln(os.Stderr, "       extractcheck [flags] -file <path>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(cfg, input, filePath, extract.InputKind(kind), asJSON, os.Stdout); err != nil {
		log.Error().Err(err).Msg("extraction failed")
		// Exit code policy: 2 for input-class failures the caller can fix by
		// changing the input, 1 for everything else.
		if inputFault(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func inputFault(err error) bool {
	for _, sentinel := range []error{
		extract.ErrInvalidReference,
		extract.ErrUnsupportedFormat,
		extract.ErrInsufficientContent,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func run(cfg extract.Config, input, filePath string, kind extract.InputKind, asJSON bool, out io.Writer) error {
	ctx := context.Background()

	svc, err := extract.New(cfg)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	if strings.TrimSpace(filePath) != "" {
		return runFile(ctx, svc, filePath, kind, asJSON, out)
	}

	res, err := svc.ExtractAs(ctx, input, kind)
	if err != nil {
		return err
	}
	return printResult(out, res, asJSON)
}

func runFile(ctx context.Context, svc *extract.Service, filePath string, kind extract.InputKind, asJSON bool, out io.Writer) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	dk, err := documentKindFor(filePath, kind)
	if err != nil {
		return err
	}
	fx, err := svc.ExtractFile(ctx, data, filePath, dk)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(fx)
	}
	printMeta(fx.Metadata)
	for _, sh := range fx.Sheets {
		log.Info().Str("sheet", sh.Name).Int("rows", sh.Rows).Msg("worksheet")
	}
	_, err = fmt.Fprintln(out, fx.Text)
	return err
}

// documentKindFor resolves which parser family handles the file: an
// explicit -kind wins, otherwise the file name decides.
func documentKindFor(filePath string, kind extract.InputKind) (extract.DocumentKind, error) {
	if kind == "" {
		kind = extract.Classify(filePath).Kind
	}
	dk, ok := kind.AsDocument()
	if !ok {
		return "", fmt.Errorf("%q does not name a document file (kind %s): %w", filePath, kind, extract.ErrUnsupportedFormat)
	}
	return dk, nil
}

func printResult(out io.Writer, res *extract.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	log.Info().Str("kind", string(res.Kind)).Msg("classified")
	printMeta(res.Metadata)
	_, err := fmt.Fprintln(out, res.Content)
	return err
}

func printMeta(md extract.Metadata) {
	ev := log.Info()
	if md.Title != "" {
		ev = ev.Str("title", md.Title)
	}
	if md.Author != "" {
		ev = ev.Str("author", md.Author)
	}
	if md.DurationText != "" {
		ev = ev.Str("duration", md.DurationText)
	}
	if md.PageCount > 0 {
		ev = ev.Int("pages", md.PageCount)
	}
	ev.Int("words", md.WordCount).Str("language", md.Language).Msg("extracted")
}
