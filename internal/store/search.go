// internal/store/search.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"readiness-workers/internal/models"
)

// SearchIndex mirrors submissions into Elasticsearch for admin search.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	if index == "" {
		index = "submissions"
	}
	return &SearchIndex{client: client, index: index}
}

type searchDoc struct {
	ID           string  `json:"id"`
	Timestamp    string  `json:"timestamp"`
	Company      string  `json:"company"`
	ContactName  string  `json:"contactName"`
	Email        string  `json:"email"`
	Role         string  `json:"role,omitempty"`
	OverallScore float64 `json:"overallScore"`
	Tier         string  `json:"tier"`
	Status       string  `json:"status"`
}

// Index upserts one submission document keyed by submission id.
func (s *SearchIndex) Index(ctx context.Context, sub *models.Submission) error {
	doc := searchDoc{
		ID:           sub.ID,
		Timestamp:    sub.Timestamp.UTC().Format(time.RFC3339),
		Company:      sub.Company,
		ContactName:  sub.ContactName,
		Email:        sub.Email,
		Role:         sub.Role,
		OverallScore: sub.OverallScore,
		Tier:         sub.Tier,
		Status:       sub.Status,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal search document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: sub.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index submission: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index submission %s: %s: %s", sub.ID, res.Status(), string(msg))
	}
	return nil
}

// Search runs a multi-field match over company, contact name, email and tier.
func (s *SearchIndex) Search(ctx context.Context, query string, size int) ([]models.SubmissionSummary, error) {
	if size <= 0 {
		size = 25
	}

	esQuery := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"company^2", "contactName", "email", "tier"},
			},
		},
		"sort": []map[string]interface{}{
			{"_score": map[string]string{"order": "desc"}},
		},
	}

	body, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search submissions: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search submissions: %s: %s", res.Status(), string(msg))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source searchDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.SubmissionSummary, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		d := hit.Source
		summary := models.SubmissionSummary{
			ID:           d.ID,
			Company:      d.Company,
			ContactName:  d.ContactName,
			Email:        d.Email,
			OverallScore: d.OverallScore,
			Tier:         d.Tier,
			Status:       d.Status,
		}
		if ts, err := time.Parse(time.RFC3339, d.Timestamp); err == nil {
			summary.Timestamp = ts
		}
		out = append(out, summary)
	}
	return out, nil
}
