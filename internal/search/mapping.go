package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping maps segment documents: English-stemmed caption text,
// an exact-match video id for scoping, and stored numeric offsets.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = en.AnalyzerName
	textField.Store = true
	textField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("text", textField)

	videoField := bleve.NewTextFieldMapping()
	videoField.Analyzer = keyword.Name
	videoField.Store = true
	docMapping.AddFieldMappingsAt("video_id", videoField)

	for _, name := range []string{"position", "start_ms", "dur_ms"} {
		f := bleve.NewNumericFieldMapping()
		f.Store = true
		docMapping.AddFieldMappingsAt(name, f)
	}

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
