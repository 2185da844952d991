package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/teatak/subword/config"
	"github.com/teatak/subword/pipeline"
	"github.com/teatak/subword/util"
	"github.com/teatak/subword/vocab"
)

func main() {
	vocabPath := flag.String("vocab", "vocab.csv", "Vocabulary CSV file, or store:<name> with -db")
	configPath := flag.String("config", "", "Optional YAML config file")
	dbPath := flag.String("db", "", "SQLite database for store:<name> vocabularies")
	pattern := flag.String("pattern", "", "Tokenizer pattern: alphas, words or a regexp (empty uses the config value)")
	dropPunct := flag.Bool("drop-punct", true, "Drop punctuation tokens before encoding")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if *pattern != "" {
		cfg.Tokenizer.Pattern = *pattern
	}

	if !strings.HasPrefix(*vocabPath, "store:") && !util.FileExists(*vocabPath) {
		fmt.Fprintf(os.Stderr, "Error: vocabulary file not found at %s.\n", *vocabPath)
		os.Exit(1)
	}
	enc, err := pipeline.NewEncoder(context.Background(), cfg, *vocabPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading vocabulary: %v\n", err)
		os.Exit(1)
	}
	tok, err := cfg.NewTokenizer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building tokenizer: %v\n", err)
		os.Exit(1)
	}

	process := func(text string) string {
		words := tok.Tokenize(text)
		if *dropPunct {
			words = util.DropPunctuation(words)
		}
		return format(enc.EncodeLine(words))
	}

	// If args provided (non-flag args), encode them
	args := flag.Args()
	if len(args) > 0 {
		fmt.Println(process(strings.Join(args, " ")))
		return
	}

	// Otherwise interactive mode
	fmt.Println("Enter text to encode (Ctrl+D to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Println(process(text))
	}
}

// format joins tokens with " / " and marks word boundaries with " | ".
func format(tokens []string) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			if vocab.IsWholeWord(tokens[i-1]) {
				b.WriteString(" | ")
			} else {
				b.WriteString(" / ")
			}
		}
		b.WriteString(t)
	}
	return b.String()
}
