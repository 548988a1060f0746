// internal/workers/data-access/search-professions/query.go
package searchprofessions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"careercompass-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrMissingQuery = errors.New("search query is required")

// buildSearchRequest assembles a locale-aware profession search. Name matches
// weigh three times heavier than description matches.
func buildSearchRequest(index string, input *Input, from, size int) (*esapi.SearchRequest, error) {
	if input.Query == "" {
		return nil, ErrMissingQuery
	}

	locale := models.ParseLocale(input.Locale)

	mustClauses := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query": input.Query,
				"fields": []string{
					fmt.Sprintf("name.%s^3", locale),
					fmt.Sprintf("description.%s", locale),
				},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}

	filterClauses := []interface{}{}
	if input.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": input.Category},
		})
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   mustClauses,
				"filter": filterClauses,
			},
		},
	}

	body, err := json.Marshal(queryBody)
	if err != nil {
		return nil, err
	}

	return &esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}, nil
}
