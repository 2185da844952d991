package main

import (
	"context"
	"flag"
	"log"

	"github.com/teatak/subword/config"
	"github.com/teatak/subword/pipeline"
)

func main() {
	inputPath := flag.String("input", "data/text.txt", "Input file path")
	kind := flag.String("kind", pipeline.KindTxt, "Input kind: csv or txt")
	outputPath := flag.String("output", "data/encoded.csv", "Output encoding file path")
	vocabPath := flag.String("vocab", "data/vocab.csv", "Vocabulary CSV file, or store:<name> with -db")
	configPath := flag.String("config", "", "Optional YAML config file")
	dbPath := flag.String("db", "", "SQLite database for store:<name> vocabularies")
	flag.Parse()

	log.SetPrefix("[ENCODE] ")

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	if err := pipeline.EncodeFile(context.Background(), cfg, *inputPath, *kind, *vocabPath, *outputPath); err != nil {
		log.Fatalf("Encoding failed: %v", err)
	}
	log.Printf("Done. Saved to %s", *outputPath)
}
