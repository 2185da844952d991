// Package pipeline wires file inputs through training, encoding and
// classification and writes the results back to disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/teatak/subword/bayes"
	"github.com/teatak/subword/bpe"
	"github.com/teatak/subword/config"
	"github.com/teatak/subword/store"
	"github.com/teatak/subword/vocab"
)

// Result describes a finished vocabulary training run.
type Result struct {
	Tokens []string
	Stats  bpe.Stats
	// RunID is the store row id, 0 when no store is configured.
	RunID int64
}

// VocabName derives the store name of a vocabulary from its output path.
func VocabName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TrainVocab trains a vocabulary on input and saves it to output. With a
// store configured the tokens and run statistics are recorded there too.
func TrainVocab(ctx context.Context, cfg *config.Config, input, kind, output string) (*Result, error) {
	tok, err := cfg.NewTokenizer()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.TrainerOptions()
	if err != nil {
		return nil, err
	}

	log.Printf("Reading %s (%s)...", input, kind)
	lines, err := ReadTokens(input, kind, tok)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	tr := bpe.NewTrainer(lines, opts...)
	log.Printf("Corpus: %d lines, %d distinct words, %d initial tokens.",
		len(lines), tr.Corpus().Len(), tr.Frequencies().Len())

	tokens := tr.Run(cfg.BPE.VocabSize)
	stats := tr.Stats()
	log.Printf("Trained %d tokens with %d merges in %v.", len(tokens), stats.Merges, stats.Elapsed)

	if err := vocab.FromTokens(tokens).Save(output); err != nil {
		return nil, fmt.Errorf("save vocabulary: %w", err)
	}
	res := &Result{Tokens: tokens, Stats: stats}

	if cfg.Store.Path == "" {
		return res, nil
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	name := VocabName(output)
	if err := st.SaveVocabulary(ctx, name, tokens); err != nil {
		return nil, fmt.Errorf("store vocabulary: %w", err)
	}
	res.RunID, err = st.LogRun(ctx, store.Run{
		Time:          time.Now(),
		Input:         input,
		Vocab:         name,
		TargetSize:    cfg.BPE.VocabSize,
		VocabSize:     len(tokens),
		Merges:        stats.Merges,
		Words:         stats.Words,
		DistinctWords: stats.DistinctWords,
		MergeMode:     cfg.BPE.MergeMode,
		Elapsed:       stats.Elapsed,
	})
	if err != nil {
		return nil, fmt.Errorf("log run: %w", err)
	}
	log.Printf("Recorded run %d as vocabulary %q in %s.", res.RunID, name, cfg.Store.Path)
	return res, nil
}

// LoadVocab loads a vocabulary from a CSV file, or from the store when
// path has the form "store:<name>".
func LoadVocab(ctx context.Context, cfg *config.Config, path string) (*vocab.Vocabulary, error) {
	if name, ok := strings.CutPrefix(path, "store:"); ok {
		if cfg.Store.Path == "" {
			return nil, errors.New("vocabulary from store requested but no store path configured")
		}
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		tokens, err := st.LoadVocabulary(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("vocabulary %q: %w", name, err)
		}
		return vocab.FromTokens(tokens), nil
	}

	v := vocab.New()
	if err := v.Load(path); err != nil {
		return nil, err
	}
	return v, nil
}

// NewEncoder loads a vocabulary and builds an encoder configured by cfg.
func NewEncoder(ctx context.Context, cfg *config.Config, vocabPath string) (*bpe.Encoder, error) {
	v, err := LoadVocab(ctx, cfg, vocabPath)
	if err != nil {
		return nil, err
	}
	return bpe.NewEncoderFromVocabulary(v, cfg.EncoderOptions()...), nil
}

// EncodeFile encodes every line of input against a vocabulary and writes
// the sequences to output.
func EncodeFile(ctx context.Context, cfg *config.Config, input, kind, vocabPath, output string) error {
	enc, err := NewEncoder(ctx, cfg, vocabPath)
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}
	tok, err := cfg.NewTokenizer()
	if err != nil {
		return err
	}
	lines, err := ReadTokens(input, kind, tok)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	seqs := enc.Encode(lines)
	unknown := 0
	for _, seq := range seqs {
		for _, t := range seq {
			if t == enc.UnknownToken() {
				unknown++
			}
		}
	}
	log.Printf("Encoded %d lines (%d unknown spans).", len(seqs), unknown)
	return SaveEncoding(output, seqs)
}

// TrainBayes trains a classifier on a labeled CSV file and saves it.
func TrainBayes(cfg *config.Config, input, output string) (*bayes.Model, error) {
	tok, err := cfg.NewTokenizer()
	if err != nil {
		return nil, err
	}
	examples, err := ReadLabeled(input, tok)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	model := bayes.Train(examples, cfg.Bayes.Smoothing)
	log.Printf("Trained model on %d examples: %d tokens, labels %v.", len(examples), model.Len(), model.Labels)
	if err := model.Save(output); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	return model, nil
}

// EvaluateBayes scores a saved model against a labeled CSV file for
// membership in cfg.Bayes.Target.
func EvaluateBayes(cfg *config.Config, modelPath, input string) (bayes.Evaluation, error) {
	if cfg.Bayes.Target == "" {
		return bayes.Evaluation{}, errors.New("bayes target label must be set")
	}
	model, err := bayes.Load(modelPath)
	if err != nil {
		return bayes.Evaluation{}, err
	}
	tok, err := cfg.NewTokenizer()
	if err != nil {
		return bayes.Evaluation{}, err
	}
	examples, err := ReadLabeled(input, tok)
	if err != nil {
		return bayes.Evaluation{}, fmt.Errorf("read input: %w", err)
	}
	ev := model.Evaluate(examples, cfg.Bayes.Target)
	log.Printf("Correct: %d  Total: %d  Accuracy: %.4f", ev.Correct, ev.Total, ev.Accuracy())
	return ev, nil
}
