package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/teatak/subword/bayes"
	"github.com/teatak/subword/bpe"
	"github.com/teatak/subword/config"
	"github.com/teatak/subword/pipeline"
	"github.com/teatak/subword/tokenize"
	"github.com/teatak/subword/util"
)

// engine is the immutable set of loaded resources; reloads swap it whole.
type engine struct {
	tok   *tokenize.Tokenizer
	enc   *bpe.Encoder
	model *bayes.Model // nil when no model is available
}

type server struct {
	cfg *config.Config

	mu  sync.RWMutex
	eng *engine

	logMu     sync.Mutex
	accessLog io.Writer

	retraining atomic.Bool
	// trainVocab trains from a text file into the vocabulary path.
	trainVocab func(ctx context.Context, input string) error
}

func newServer(cfg *config.Config, accessLog io.Writer) *server {
	s := &server{cfg: cfg, accessLog: accessLog}
	s.trainVocab = s.trainFromFile
	return s
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/encode", s.handleEncode)
	mux.HandleFunc("/classify", s.handleClassify)
	mux.HandleFunc("/vocab", s.handleVocab)
	mux.HandleFunc("/reload", s.handleReload)
	mux.HandleFunc("/retrain", s.handleRetrain)
	return mux
}

func (s *server) current() *engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng
}

// reload loads vocabulary and model from disk and swaps them in.
func (s *server) reload() error {
	log.Println("Reloading engine...")
	tok, err := s.cfg.NewTokenizer()
	if err != nil {
		return err
	}
	eng := &engine{tok: tok}

	vocabPath := s.cfg.Server.VocabPath
	if strings.HasPrefix(vocabPath, "store:") || util.FileExists(vocabPath) {
		eng.enc, err = pipeline.NewEncoder(context.Background(), s.cfg, vocabPath)
		if err != nil {
			return fmt.Errorf("load vocabulary: %w", err)
		}
		log.Printf("Loaded vocabulary %s (%d tokens).", vocabPath, eng.enc.Vocabulary().Len())
	} else {
		log.Printf("Warning: vocabulary %s not found, every word encodes as unknown.", vocabPath)
		eng.enc = bpe.NewEncoder(nil, s.cfg.EncoderOptions()...)
	}

	if p := s.cfg.Server.ModelPath; p != "" && util.FileExists(p) {
		eng.model, err = bayes.Load(p)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		log.Printf("Loaded model %s (labels %v).", p, eng.model.Labels)
	} else {
		log.Println("Note: no classifier model found, /classify is disabled.")
	}

	s.mu.Lock()
	s.eng = eng
	s.mu.Unlock()
	log.Println("Engine reloaded successfully.")
	return nil
}

// Request/Response types
type TextRequest struct {
	Text   string `json:"text"`
	Target string `json:"target,omitempty"` // classify only
}

type EncodeResponse struct {
	Words  []string   `json:"words"`
	Tokens [][]string `json:"tokens"` // one entry per word
}

type ClassifyResponse struct {
	Label   string             `json:"label"`
	InClass *bool              `json:"in_class,omitempty"`
	Scores  map[string]float64 `json:"scores"` // log-likelihoods, -Inf omitted
}

type VocabResponse struct {
	Size   int      `json:"size"`
	MaxLen int      `json:"max_len"`
	Tokens []string `json:"tokens"`
}

func decodeText(w http.ResponseWriter, r *http.Request) (TextRequest, bool) {
	var req TextRequest
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func (s *server) handleEncode(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	s.logText(req.Text)

	eng := s.current()
	words := eng.tok.Tokenize(req.Text)
	resp := EncodeResponse{Words: words, Tokens: make([][]string, len(words))}
	for i, word := range words {
		resp.Tokens[i] = eng.enc.EncodeWord(word)
	}
	writeJSON(w, resp)
}

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	eng := s.current()
	if eng.model == nil {
		http.Error(w, "no classifier model loaded", http.StatusServiceUnavailable)
		return
	}

	tokens := eng.tok.Tokenize(req.Text)
	label, ok := eng.model.Classify(tokens)
	if !ok {
		http.Error(w, "classifier model has no labels", http.StatusServiceUnavailable)
		return
	}
	resp := ClassifyResponse{Label: label, Scores: make(map[string]float64)}
	for l, score := range eng.model.Scores(tokens) {
		if !math.IsInf(score, 0) && !math.IsNaN(score) {
			resp.Scores[l] = score
		}
	}
	target := req.Target
	if target == "" {
		target = s.cfg.Bayes.Target
	}
	if target != "" {
		in := eng.model.InClass(tokens, target)
		resp.InClass = &in
	}
	writeJSON(w, resp)
}

func (s *server) handleVocab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	v := s.current().enc.Vocabulary()
	writeJSON(w, VocabResponse{Size: v.Len(), MaxLen: v.MaxLen, Tokens: v.Tokens})
}

func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.reload(); err != nil {
		log.Printf("Reload failed: %v", err)
		http.Error(w, fmt.Sprintf("Reload failed: %v", err), http.StatusInternalServerError)
		return
	}
	fmt.Fprintln(w, "Engine reloaded.")
}

func (s *server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cfg.Server.AccessLog == "" {
		http.Error(w, "access log disabled", http.StatusBadRequest)
		return
	}
	if !s.retraining.CompareAndSwap(false, true) {
		http.Error(w, "retraining already running", http.StatusConflict)
		return
	}
	go func() {
		defer s.retraining.Store(false)
		if err := s.retrain(context.Background()); err != nil {
			log.Printf("Retraining failed: %v", err)
		}
	}()
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintln(w, "Retraining started in background.")
}

// retrain trains a new vocabulary from the access log, writes it to the
// configured vocabulary path and reloads the engine. The log is only locked
// while it is moved aside, so encoding continues during training.
func (s *server) retrain(ctx context.Context) error {
	vocabPath := s.cfg.Server.VocabPath
	if strings.HasPrefix(vocabPath, "store:") {
		return fmt.Errorf("cannot retrain into %s, set a file vocab_path", vocabPath)
	}
	log.Printf("Retraining vocabulary from %s...", s.cfg.Server.AccessLog)

	snapshot, err := s.takeLog()
	if err != nil {
		return fmt.Errorf("snapshot access log: %w", err)
	}
	defer os.Remove(snapshot)

	if err := s.trainVocab(ctx, snapshot); err != nil {
		if rerr := s.restoreLog(snapshot); rerr != nil {
			log.Printf("Warning: failed to restore %s: %v", s.cfg.Server.AccessLog, rerr)
		}
		return err
	}
	return s.reload()
}

func (s *server) trainFromFile(ctx context.Context, input string) error {
	_, err := pipeline.TrainVocab(ctx, s.cfg, input, pipeline.KindTxt, s.cfg.Server.VocabPath)
	return err
}

// takeLog copies the access log to a temporary file and empties it.
func (s *server) takeLog() (string, error) {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	data, err := os.ReadFile(s.cfg.Server.AccessLog)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(s.cfg.Server.AccessLog), "retrain-*.log")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	// the log is opened O_APPEND so later writes start at the new end
	if err := os.Truncate(s.cfg.Server.AccessLog, 0); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// restoreLog appends a snapshot back to the access log after a failed run.
func (s *server) restoreLog(snapshot string) error {
	data, err := os.ReadFile(snapshot)
	if err != nil {
		return err
	}
	s.logMu.Lock()
	defer s.logMu.Unlock()
	f, err := os.OpenFile(s.cfg.Server.AccessLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *server) logText(text string) {
	text = strings.TrimSpace(text)
	if s.accessLog == nil || text == "" {
		return
	}
	// one line per request
	text = strings.ReplaceAll(text, "\n", " ")
	s.logMu.Lock()
	defer s.logMu.Unlock()
	if _, err := io.WriteString(s.accessLog, text+"\n"); err != nil {
		log.Printf("Warning: access log write failed: %v", err)
	}
}
