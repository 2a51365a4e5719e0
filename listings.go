package auth

import (
	"context"
	"fmt"
	"net/http"
)

// Listing is an accommodation as returned by the public listing
// endpoints. External collaborator surface, no invariants.
type Listing struct {
	ID            int64   `json:"id"`
	Name          string  `json:"nombre"`
	Description   string  `json:"descripcion,omitempty"`
	City          string  `json:"ciudad,omitempty"`
	PricePerNight float64 `json:"precioPorNoche,omitempty"`
	Active        bool    `json:"activo,omitempty"`
}

// ListingsClient fetches accommodation listings.
type ListingsClient struct {
	api *Client
}

// NewListingsClient wraps an API client for listing calls.
func NewListingsClient(api *Client) *ListingsClient {
	return &ListingsClient{api: api}
}

// ActiveListings returns the accommodations currently published.
func (l *ListingsClient) ActiveListings(ctx context.Context) ([]Listing, error) {
	var out []Listing
	if err := l.api.do(ctx, http.MethodGet, "/api/alojamientos/activos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Listing returns a single accommodation by id.
func (l *ListingsClient) Listing(ctx context.Context, id int64) (*Listing, error) {
	out := &Listing{}
	if err := l.api.do(ctx, http.MethodGet, fmt.Sprintf("/api/alojamientos/%d", id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
