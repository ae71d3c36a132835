// CLAUDE:SUMMARY Language-aware sentence segmentation (Punkt) with an explicit New/Segment/Close lifecycle.
// CLAUDE:EXPORTS Segmenter, New, Option, WithModelFile, WithLogger, ErrSegmentation, ErrUnsupportedLanguage
// Package segment splits normalized page text into sentences.
//
// A Segmenter is built once per run for one language and shared by
// reference; it holds no package-level state.
//
//	seg, err := segment.New("ro")
//	defer seg.Close()
//	err = seg.Annotate(&record)
package segment

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hazyhaar/pagecorpus/docpipe"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
)

var (
	// ErrSegmentation marks a page whose text could not be segmented.
	ErrSegmentation = errors.New("segment: cannot segment text")

	ErrUnsupportedLanguage = errors.New("segment: unsupported language")
	ErrClosed              = errors.New("segment: segmenter closed")
)

// Segmenter splits text into sentences for one language.
type Segmenter struct {
	language  string
	tokenizer *sentences.DefaultSentenceTokenizer
	logger    *zap.Logger
	closed    bool
}

type options struct {
	modelFile string
	logger    *zap.Logger
}

// Option configures New.
type Option func(*options)

// WithModelFile loads Punkt training data (JSON) instead of the built-in data.
func WithModelFile(path string) Option {
	return func(o *options) { o.modelFile = path }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a segmenter for language ("ro", "en", "fr", or any language
// when a model file is given).
func New(language string, opts ...Option) (*Segmenter, error) {
	o := options{logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	language = strings.ToLower(strings.TrimSpace(language))

	storage := sentences.NewStorage()
	if o.modelFile != "" {
		data, err := os.ReadFile(o.modelFile)
		if err != nil {
			return nil, fmt.Errorf("segment: read model: %w", err)
		}
		storage, err = sentences.LoadTraining(data)
		if err != nil {
			return nil, fmt.Errorf("segment: load model %s: %w", o.modelFile, err)
		}
	}

	abbrs, known := abbreviations[language]
	if !known && o.modelFile == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	var tokenizer *sentences.DefaultSentenceTokenizer
	if language == "en" {
		// nil selects the bundled English training data.
		var training *sentences.Storage
		if o.modelFile != "" {
			training = storage
		}
		t, err := english.NewSentenceTokenizer(training)
		if err != nil {
			return nil, fmt.Errorf("segment: english model: %w", err)
		}
		tokenizer = t
	} else {
		tokenizer = sentences.NewSentenceTokenizer(storage)
	}
	// Seed the storage the tokenizer actually uses (bundled for English).
	for _, a := range abbrs {
		tokenizer.AbbrevTypes.Add(a)
	}

	o.logger.Debug("segmenter ready",
		zap.String("language", language),
		zap.String("model", o.modelFile),
		zap.Int("abbreviations", len(tokenizer.AbbrevTypes)),
	)

	return &Segmenter{language: language, tokenizer: tokenizer, logger: o.logger}, nil
}

// Language returns the segmenter's language code.
func (s *Segmenter) Language() string { return s.language }

// Segment splits normalized text into trimmed, non-empty sentences.
// Empty text gives an empty, non-nil slice.
func (s *Segmenter) Segment(text string) (out []string, err error) {
	if s.closed {
		return nil, ErrClosed
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: invalid utf-8", ErrSegmentation)
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrSegmentation, r)
		}
	}()

	out = []string{}
	for _, sent := range s.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// Annotate fills the record's sentences and their count. On failure the
// record gets an empty list and a zero count, and the error is returned.
func (s *Segmenter) Annotate(rec *docpipe.PageRecord) error {
	sents, err := s.Segment(rec.Text)
	if err != nil {
		rec.Sentences = []string{}
		rec.SentenceCountSegmented = 0
		return err
	}
	rec.Sentences = sents
	rec.SentenceCountSegmented = len(sents)
	return nil
}

// Close releases the tokenizer. Further calls fail with ErrClosed.
func (s *Segmenter) Close() error {
	s.closed = true
	s.tokenizer = nil
	return nil
}
