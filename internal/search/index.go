package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/julianstephens/questlog/internal/models"
)

// Index is an in-memory index over one aggregate. It is rebuilt, never
// updated in place.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// Build indexes every record of agg.
func Build(agg models.Aggregate) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, doc := range Documents(agg) {
		if err := batch.Index(doc.key(), doc.ToMap()); err != nil {
			idx.Close()
			return nil, fmt.Errorf("batch index %s: %w", doc.key(), err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	return &Index{index: idx}, nil
}

func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}

func (i *Index) DocumentCount() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.DocCount()
}

// Params configures a search.
type Params struct {
	Query string
	Types []DocType // empty means all
	Limit int
}

// Hit is one matching record.
type Hit struct {
	ID    string
	Type  DocType
	Title string
	Score float64
}

// Search runs a match, fuzzy and prefix disjunction over titles, bodies and
// campaign names.
func (i *Index) Search(ctx context.Context, params Params) ([]Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if strings.TrimSpace(params.Query) == "" {
		return []Hit{}, nil
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), limit, 0, false)
	req.Fields = []string{"id", "type", "title"}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["id"].(string); ok {
			hit.ID = v
		}
		if v, ok := h.Fields["type"].(string); ok {
			hit.Type = DocType(v)
		}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func buildQuery(params Params) query.Query {
	text := strings.TrimSpace(params.Query)

	titleMatch := bleve.NewMatchQuery(text)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	bodyMatch := bleve.NewMatchQuery(text)
	bodyMatch.SetField("body")

	campaignMatch := bleve.NewMatchQuery(text)
	campaignMatch.SetField("campaigns")
	campaignMatch.SetBoost(0.5)

	fuzzy := bleve.NewFuzzyQuery(strings.ToLower(text))
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("title")
	fuzzy.SetBoost(0.8)

	textQueries := []query.Query{titleMatch, bodyMatch, campaignMatch, fuzzy}
	if len(text) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(text))
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		textQueries = append(textQueries, prefix)
	}

	var q query.Query = bleve.NewDisjunctionQuery(textQueries...)
	if len(params.Types) == 0 {
		return q
	}

	typeQueries := make([]query.Query, len(params.Types))
	for n, t := range params.Types {
		tq := bleve.NewTermQuery(string(t))
		tq.SetField("type")
		typeQueries[n] = tq
	}
	return bleve.NewConjunctionQuery(q, bleve.NewDisjunctionQuery(typeQueries...))
}
