package autopilot

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// similarPrefixLen is how many leading characters of a request form the
// similarity prefix.
const similarPrefixLen = 12

// SimilarityIndex finds prior successful tasks with similar descriptions.
// Descriptions are indexed in-memory; lookup is a textual prefix match, so
// "open terminal and split" finds earlier "open terminal" tasks.
type SimilarityIndex struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewSimilarityIndex creates an empty in-memory index.
func NewSimilarityIndex() (*SimilarityIndex, error) {
	index, err := bleve.NewMemOnly(buildTaskMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create similarity index: %w", err)
	}
	return &SimilarityIndex{index: index}, nil
}

// buildTaskMapping maps task documents with a keyword-analyzed description
// so prefix queries run over the whole request, not per word.
func buildTaskMapping() mapping.IndexMapping {
	descMapping := bleve.NewTextFieldMapping()
	descMapping.Analyzer = keyword.Name

	taskMapping := bleve.NewDocumentMapping()
	taskMapping.AddFieldMappingsAt("description", descMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = taskMapping
	return indexMapping
}

// taskDoc is a task as stored in the similarity index.
type taskDoc struct {
	Description string `json:"description"`
}

// Add indexes a completed successful task.
func (s *SimilarityIndex) Add(taskID, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := taskDoc{Description: strings.ToLower(strings.TrimSpace(description))}
	if err := s.index.Index(taskID, doc); err != nil {
		return fmt.Errorf("failed to index task: %w", err)
	}
	return nil
}

// FindSimilar returns ids of indexed tasks whose description shares the
// request's leading prefix, best match first.
func (s *SimilarityIndex) FindSimilar(description string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	prefix := strings.ToLower(strings.TrimSpace(description))
	if utf8.RuneCountInString(prefix) > similarPrefixLen {
		prefix = string([]rune(prefix)[:similarPrefixLen])
	}
	if prefix == "" {
		return nil, nil
	}

	q := bleve.NewPrefixQuery(prefix)
	q.SetField("description")

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Close releases the index.
func (s *SimilarityIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
