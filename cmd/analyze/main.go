// Command analyze runs one-shot sentiment analysis from the terminal.
//
// Usage:
//
//	analyze "Apple reports record growth and strong profit"
//	analyze -f headlines.txt   (one passage per line)
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/classifier"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/classifier/classifierobs"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/lexicon"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/logger"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/sentiment"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/store"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/trace"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/types"
)

func main() {
	file := flag.String("f", "", "file with one passage per line")
	title := flag.String("title", "", "optional title for a single passage")
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	if err := run(*file, *title, *configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(file, title, configPath string, args []string) error {
	_ = godotenv.Load()

	if err := logger.InitWithConfig(logger.LogConfig{Level: "WARN", Format: "text"}); err != nil {
		return err
	}
	_ = trace.Init()

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = store.Default()
	}

	cls, err := classifier.NewOpenAIClassifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize classifier: %w", err)
	}
	svc := sentiment.NewService(cfg, classifierobs.Wrap(cls), lexicon.Default())

	ctx := context.Background()

	texts, err := collectTexts(file, args)
	if err != nil {
		return err
	}

	switch len(texts) {
	case 0:
		return fmt.Errorf("no text to analyze: pass a passage as an argument or use -f")
	case 1:
		result, err := svc.AnalyzeSentiment(ctx, texts[0], title)
		if err != nil {
			return err
		}
		return printJSON(result)
	default:
		items := make([]types.AnalyzeRequest, len(texts))
		for i, t := range texts {
			items[i] = types.AnalyzeRequest{Text: t}
		}
		entries, err := svc.AnalyzeBatch(ctx, items)
		if err != nil {
			return err
		}
		return printJSON(entries)
	}
}

func collectTexts(file string, args []string) ([]string, error) {
	if file == "" {
		if len(args) == 0 {
			return nil, nil
		}
		return []string{strings.Join(args, " ")}, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var texts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			texts = append(texts, line)
		}
	}
	return texts, scanner.Err()
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
