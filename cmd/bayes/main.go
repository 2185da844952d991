package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/teatak/subword/bayes"
	"github.com/teatak/subword/config"
	"github.com/teatak/subword/pipeline"
)

func main() {
	mode := flag.String("mode", "train", "train, eval or classify")
	inputPath := flag.String("input", "data/train.csv", "Labeled CSV file (label,text) for train and eval")
	modelPath := flag.String("model", "data/bayes.csv", "Model file to write (train) or read (eval, classify)")
	target := flag.String("target", "", "Target label for eval (empty uses the config value)")
	smoothing := flag.Float64("smoothing", -1, "Additive smoothing (negative uses the config value)")
	configPath := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *target != "" {
		cfg.Bayes.Target = *target
	}
	if *smoothing >= 0 {
		cfg.Bayes.Smoothing = *smoothing
	}

	switch *mode {
	case "train":
		fmt.Printf("Training Naive Bayes model...\n")
		fmt.Printf("Input: %s\n", *inputPath)
		fmt.Printf("Output: %s\n", *modelPath)
		fmt.Printf("Smoothing: %v\n", cfg.Bayes.Smoothing)
		if _, err := pipeline.TrainBayes(cfg, *inputPath, *modelPath); err != nil {
			fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Successfully saved model to %s\n", *modelPath)

	case "eval":
		ev, err := pipeline.EvaluateBayes(cfg, *modelPath, *inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Evaluation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Correct: %d\n", ev.Correct)
		fmt.Printf("Total: %d\n", ev.Total)
		fmt.Printf("Percent correct: %.2f%%\n", ev.Accuracy()*100)

	case "classify":
		model, err := bayes.Load(*modelPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
			os.Exit(1)
		}
		tok, err := cfg.NewTokenizer()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building tokenizer: %v\n", err)
			os.Exit(1)
		}
		label, ok := model.Classify(tok.Tokenize(strings.Join(flag.Args(), " ")))
		if !ok {
			fmt.Fprintln(os.Stderr, "Model has no labels")
			os.Exit(1)
		}
		fmt.Println(label)

	default:
		fmt.Fprintf(os.Stderr, "Unknown mode '%s'. Use train, eval or classify.\n", *mode)
		os.Exit(1)
	}
}
