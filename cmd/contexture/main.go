package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/openock/contexture/internal/assembler"
	"github.com/openock/contexture/internal/cache"
	"github.com/openock/contexture/internal/clock"
	"github.com/openock/contexture/internal/config"
	"github.com/openock/contexture/internal/core"
	"github.com/openock/contexture/internal/llm"
	"go.uber.org/zap"
)

var BUILD_VERSION = "dev"

var configPath = flag.String("config", "", "path to a configuration file")
var contextOnly = flag.Bool("context-only", false, "print assembled context instead of asking the model")
var forceRefresh = flag.Bool("refresh", false, "bypass cached source data")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `contexture - context-aware assistant for your calendar and trackers

USAGE:
  contexture [options] "question"
  contexture [options]            Read questions from stdin, one per line

Questions are analyzed to decide which sources (calendar, repository
host, issue tracker) are relevant; matching records are fetched, ranked,
summarized, and handed to the model along with the question.

OPTIONS:
`

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	logger, logLevel, err := initializeLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("failed to load configuration", zap.Error(err))
		os.Exit(1)
	}

	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil && BUILD_VERSION != "dev" {
		logLevel.SetLevel(level.Level())
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("unhandled error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	var clk clock.Clock = clock.System{}
	if cfg.UseTimeService {
		clk = clock.NewNetworkClock(cfg.Timezone, logger)
	}

	asm := assembler.New(assembler.Options{
		Logger:             logger,
		Clock:              clk,
		Cache:              cache.New(clk, cfg.CacheTTLs(), logger),
		MaxTokens:          cfg.MaxTokens,
		TargetContextChars: cfg.TargetContextChars,
	})

	var chatter llm.Chatter
	if !*contextOnly {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set; use -context-only to skip the model")
		}
		model := os.Getenv("CONTEXTURE_MODEL")
		if model == "" {
			model = "gpt-4o-mini"
		}
		chatter = llm.NewClient(apiKey, os.Getenv("OPENAI_BASE_URL"), model, logger)
	}

	// contexture "question"
	if flag.NArg() > 0 {
		return answer(ctx, asm, chatter, strings.Join(flag.Args(), " "))
	}

	// contexture < questions.txt, or interactive stdin
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if err := answer(ctx, asm, chatter, query); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func answer(ctx context.Context, asm *assembler.Assembler, chatter llm.Chatter, query string) error {
	assembled := asm.Assemble(ctx, query, assembler.Request{
		IncludeCalendar:     true,
		IncludeRepoHost:     true,
		IncludeIssueTracker: true,
		ForceRefresh:        *forceRefresh,
	})

	if chatter == nil {
		fmt.Println(assembled)
		return nil
	}

	response, err := chatter.Chat(ctx, query, assembled)
	if err != nil {
		return err
	}
	fmt.Println(response)
	return nil
}

func loadConfig(logger *zap.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)
	if *configPath != "" {
		return loader.LoadFromFile(*configPath)
	}
	return loader.LoadDefaultPath()
}

func initializeLogger() (*zap.Logger, zap.AtomicLevel, error) {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// Logs go to a file so they never interleave with answers on stdout.
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{core.LogFile()}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	return logger, logLevel, nil
}
