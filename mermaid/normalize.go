package mermaid

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// ErrorType classifies normalizer failures.
type ErrorType string

const (
	ErrParse    ErrorType = "parse_error"
	ErrConvert  ErrorType = "convert_error"
	ErrValidate ErrorType = "validation_error"
)

// NormalizeError wraps conversion issues with context and type. The core
// pipeline never surfaces it to callers as a hard failure; the document
// wrappers return it normally.
type NormalizeError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *NormalizeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// ValidationDetail provides structured info about one invalid label.
type ValidationDetail struct {
	Line    int
	Label   string
	Message string
}

// ValidationError groups label-validation problems for one document.
type ValidationError struct {
	Issues  []string
	Details []ValidationDetail
}

func (v *ValidationError) Error() string {
	return "mermaid validation failed: " + strings.Join(v.Issues, "; ")
}

// Options holds knobs for normalization.
type Options struct {
	// Logger receives diagnostics (classification, fallbacks, recovered
	// panics). Defaults to a no-op logger; the package never writes to a
	// process-wide default.
	Logger *zap.Logger
	// DisableSequenceRepair keeps activation markers exactly as written for
	// callers that pair markers themselves. Separator escaping still runs.
	DisableSequenceRepair bool
}

var defaultOptions = Options{}

// Result carries the normalized output and what happened on the way there.
type Result struct {
	Output    string
	Type      DiagramType
	Converted bool // output differs from the input
	FellBack  bool // structural conversion was abandoned
	Issues    []string
}

// Normalize rewrites legacy diagram syntax in src into the canonical
// descriptor form. It always returns a string: on any validation failure or
// unexpected error the escape-pre-pass text (or the input itself) comes back
// instead, favoring renderability over feature completeness.
func Normalize(src string) string {
	return NormalizeWithOptions(src, defaultOptions)
}

// NormalizeWithOptions is Normalize with diagnostics and repair knobs.
func NormalizeWithOptions(src string, opts Options) string {
	return NormalizeDetailed(src, opts).Output
}

// NormalizeReader normalizes everything readable from r.
func NormalizeReader(r io.Reader, opts Options) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", &NormalizeError{Type: ErrParse, Message: "read diagram source", Err: err}
	}
	return NormalizeWithOptions(string(body), opts), nil
}

// NormalizeDetailed exposes the full conversion result. The pipeline runs
// classify, escape pre-pass, dialect conversion, then label validation; each
// stage is a pure function of its input, so concurrent calls need no
// coordination.
func NormalizeDetailed(src string, opts Options) (res Result) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res.Output = src
	res.Type = Classify(src)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("normalize: recovered from converter panic",
				zap.String("type", string(res.Type)),
				zap.Any("panic", r))
			res = Result{Output: src, Type: res.Type, FellBack: true}
		}
	}()

	escaped := ResolveEscapes(src)
	logger.Debug("classified diagram", zap.String("type", string(res.Type)))

	conv := DefaultRegistry.converterFor(res.Type)
	out, err := conv.Convert(escaped, opts)
	if err != nil {
		if verr, ok := err.(*ValidationError); ok {
			res.Issues = verr.Issues
		} else {
			res.Issues = []string{err.Error()}
		}
		logger.Warn("conversion abandoned, falling back to pre-pass text",
			zap.String("type", string(res.Type)),
			zap.Strings("issues", res.Issues))
		res.Output = escaped
		res.FellBack = true
		res.Converted = escaped != src
		return res
	}
	res.Output = out
	res.Converted = out != src
	return res
}
