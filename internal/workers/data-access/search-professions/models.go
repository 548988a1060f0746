// internal/workers/data-access/search-professions/models.go
package searchprofessions

type Input struct {
	Query    string `json:"query"`
	Locale   string `json:"locale,omitempty"`
	Category string `json:"category,omitempty"`
	From     int    `json:"from,omitempty"`
	Size     int    `json:"size,omitempty"`
}

type Output struct {
	Professions []map[string]interface{} `json:"professions"`
	TotalHits   int64                    `json:"totalHits"`
	MaxScore    float64                  `json:"maxScore"`
	Took        int64                    `json:"took"`
}
