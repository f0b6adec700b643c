package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"docqa/internal/model"
)

// maxRecommendations caps the recommender output.
const maxRecommendations = 3

// Recommend ranks other tagged documents by how many normalized tags they
// share with the source document. An untagged source yields an empty result,
// not an error. Read-only.
func (s *documentService) Recommend(ctx context.Context, id string) ([]model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	src := normalizeTags(doc.Tags)
	if len(src) == 0 {
		return []model.Document{}, nil
	}

	candidates, err := s.repo.ListTagged(ctx, id)
	if err != nil {
		return nil, err
	}

	type scoredDoc struct {
		doc   model.Document
		score int
	}
	scored := make([]scoredDoc, 0, len(candidates))
	for _, cand := range candidates {
		n := overlap(src, normalizeTags(cand.Tags))
		if n > 0 {
			scored = append(scored, scoredDoc{doc: cand, score: n})
		}
	}

	// Stable sort keeps retrieval order among equal scores, so results are
	// deterministic per run.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	out := make([]model.Document, 0, len(scored))
	for _, sc := range scored {
		out = append(out, sc.doc)
	}
	return out, nil
}

// normalizeTags splits a comma-separated tag string into a set of trimmed,
// lower-cased tags, dropping empties. A nil input yields an empty set.
func normalizeTags(tags *string) map[string]struct{} {
	set := make(map[string]struct{})
	if tags == nil {
		return set
	}
	for _, raw := range strings.Split(*tags, ",") {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

// overlap counts tags present in both sets; multiplicity is ignored.
func overlap(a, b map[string]struct{}) int {
	n := 0
	for tag := range b {
		if _, ok := a[tag]; ok {
			n++
		}
	}
	return n
}
