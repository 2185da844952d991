package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/teatak/subword/config"
	"github.com/teatak/subword/pipeline"
	"github.com/teatak/subword/util"
)

func main() {
	inputPath := flag.String("input", "", "Path to the training text (csv: header + text in column 1, txt: one line per line)")
	kind := flag.String("kind", pipeline.KindTxt, "Input kind: csv or txt")
	outputPath := flag.String("output", "vocab.csv", "Path to save the trained vocabulary")
	size := flag.Int("size", 0, "Target vocabulary size (0 uses the config value)")
	mode := flag.String("merge", "", "Merge mode: greedy or reference (empty uses the config value)")
	configPath := flag.String("config", "", "Optional YAML config file")
	dbPath := flag.String("db", "", "Optional SQLite database to record the vocabulary and run")
	flag.Parse()

	log.SetPrefix("[TRAIN] ")

	if *inputPath == "" {
		fmt.Println("Please provide an input file using -input flag")
		os.Exit(1)
	}
	if !util.FileExists(*inputPath) {
		fmt.Fprintf(os.Stderr, "Error: input file not found at %s\n", *inputPath)
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *size > 0 {
		cfg.BPE.VocabSize = *size
	}
	if *mode != "" {
		cfg.BPE.MergeMode = *mode
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	res, err := pipeline.TrainVocab(context.Background(), cfg, *inputPath, *kind, *outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Vocabulary of %d tokens saved to %s\n", len(res.Tokens), *outputPath)
	if res.RunID > 0 {
		fmt.Printf("Run %d recorded in %s\n", res.RunID, cfg.Store.Path)
	}
}
