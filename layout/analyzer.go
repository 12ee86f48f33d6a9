package layout

import (
	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/tables"
	"github.com/tsawler/pdfoutline/text"
)

// AnalyzerConfig holds configuration for the layout analyzer
type AnalyzerConfig struct {
	Line  LineConfig
	Table tables.Config
}

// DefaultAnalyzerConfig returns sensible defaults for layout analysis
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Line:  DefaultLineConfig(),
		Table: tables.DefaultConfig(),
	}
}

// PageInput is everything the analyzer needs from one page
type PageInput struct {
	Number int // 1-based
	Spans  []text.TextSpan
	Images []PageImage
}

// AnalysisResult is the output of Analyze
type AnalysisResult struct {
	Stats  FontStats
	Blocks []model.ClassifiedBlock
}

// HasHeadings reports whether any heading was found
func (r *AnalysisResult) HasHeadings() bool {
	for _, b := range r.Blocks {
		if b.Kind == model.KindHeading {
			return true
		}
	}
	return false
}

// Analyzer runs the complete layout pipeline over a document
type Analyzer struct {
	lines      *LineGrouper
	classifier *Classifier
}

// NewAnalyzer creates an analyzer with default configuration
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultAnalyzerConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	return &Analyzer{
		lines:      NewLineGrouperWithConfig(config.Line),
		classifier: NewClassifier(tables.NewGeometricDetectorWithConfig(config.Table)),
	}
}

// Analyze classifies every page. Pages must be in page order.
func (a *Analyzer) Analyze(pages []PageInput) *AnalysisResult {
	spans := make([][]text.TextSpan, len(pages))
	for i, p := range pages {
		spans[i] = p.Spans
	}
	stats := ComputeFontStats(spans...)

	lines := make([][]TextLine, len(pages))
	for i, p := range pages {
		lines[i] = a.lines.GroupLines(p.Spans)
	}
	ClassifyHeadings(stats, lines...)

	result := &AnalysisResult{Stats: stats}
	for i, p := range pages {
		blocks := GroupBlocks(lines[i])
		result.Blocks = append(result.Blocks, a.classifier.Classify(p.Number, blocks, p.Images)...)
	}
	return result
}
