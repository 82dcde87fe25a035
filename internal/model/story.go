package model

// Story is the domain model for one entry in the list.
// ID is the only field used for equality and removal.
type Story struct {
	ID       int    `json:"id" yaml:"id" toml:"id"`
	Title    string `json:"title" yaml:"title" toml:"title"`
	URL      string `json:"url" yaml:"url" toml:"url"`
	Author   string `json:"author" yaml:"author" toml:"author"`
	Comments int    `json:"num_comments" yaml:"num_comments" toml:"num_comments"`
	Points   int    `json:"points" yaml:"points" toml:"points"`
}
