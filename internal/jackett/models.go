// Package jackett provides HTTP communication with a Jackett server.
package jackett

// Indexer represents one indexer as reported by Jackett's indexer list.
type Indexer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Configured  bool   `json:"configured"`
	Caps        Caps   `json:"caps"`
}

// Caps describes what an indexer supports.
type Caps struct {
	Searching  Searching  `json:"searching"`
	Categories []Category `json:"categories"`
}

// Searching describes the supported search modes.
type Searching struct {
	Search      SearchType `json:"search"`
	TVSearch    SearchType `json:"tv-search"`
	MovieSearch SearchType `json:"movie-search"`
}

// SearchType describes a single search mode's capabilities.
type SearchType struct {
	Available       bool     `json:"available"`
	SupportedParams []string `json:"supportedParams"`
}

// Category represents a Torznab category the indexer serves.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SupportsImdb reports whether the indexer accepts IMDB-keyed queries.
func (i *Indexer) SupportsImdb() bool {
	for _, p := range i.Caps.Searching.MovieSearch.SupportedParams {
		if p == "imdbid" {
			return true
		}
	}
	return false
}

// SupportsCategory reports whether the indexer declares Torznab categories.
func (i *Indexer) SupportsCategory() bool {
	return len(i.Caps.Categories) > 0
}
