// Package model contains domain entities shared across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Marker is a (user, cutoff) pair read from a <repos> element.
// Cutoff stays an opaque string until a chain parses it.
type Marker struct {
	User   string `json:"user"`
	Cutoff string `json:"cutoff"`
}

// Repository is the declared shape of one record from the repository-listing API.
// Only the fields the tables show are decoded; the rest of the payload is ignored.
type Repository struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	UpdatedAt   string  `json:"updated_at" validate:"required"`
	CloneURL    string  `json:"clone_url" validate:"required,url"`

	// Updated is UpdatedAt parsed by the fetcher.
	Updated time.Time `json:"-"`
}

// DescriptionText returns the description or an empty string when the API sent null.
func (r Repository) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// UserTable is the filtered result set for one marker, alive for a single render.
type UserTable struct {
	User         string
	Cutoff       string
	Repositories []Repository
}
