package preview

import (
	"github.com/starford/annal/internal/catalog"
	"github.com/starford/annal/internal/docservice"
)

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []docservice.DocumentItem `json:"documents"`
	Total     int                       `json:"total"`
	Limit     int                       `json:"limit"`
	Offset    int                       `json:"offset"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []catalog.SearchResult `json:"results"`
}

// YearsResponse lists document counts per year.
type YearsResponse struct {
	Years []catalog.YearCount `json:"years"`
}

// BuildResponse reports the latest build.
type BuildResponse struct {
	Built  bool                    `json:"built"`
	Status *docservice.BuildStatus `json:"status,omitempty"`
}
