// Package maps builds route previews between a job's pickup and dropoff.
package maps

import (
	"context"
	"fmt"
	"log"
	"time"

	gmaps "googlemaps.github.io/maps"

	"livestock/internal/domain"
)

// Marker kinds.
const (
	MarkerPickup  = "pickup"
	MarkerDropoff = "dropoff"
)

// Marker is a labelled point on the preview.
type Marker struct {
	Kind     string
	Location domain.Location
}

// Route is a driving route between the markers.
type Route struct {
	DistanceMeters int
	DistanceText   string
	Duration       time.Duration
	Polyline       string // Encoded overview polyline
	Summary        string
}

// Preview is what a client draws for a job.
type Preview struct {
	Markers []Marker
	Route   *Route // nil when no route could be fetched
}

//go:generate mockgen -source=maps.go -destination=mocks/maps_mock.go -package=mock_maps

// DirectionsClient is the directions call the previewer depends on.
type DirectionsClient interface {
	Directions(ctx context.Context, r *gmaps.DirectionsRequest) ([]gmaps.Route, []gmaps.GeocodedWaypoint, error)
}

// Previewer builds route previews.
type Previewer struct {
	client DirectionsClient
}

// NewPreviewer creates a Previewer. A nil client yields markers only.
func NewPreviewer(client DirectionsClient) *Previewer {
	return &Previewer{client: client}
}

// NewPreviewerFromAPIKey creates a Previewer backed by Google Maps, or a
// markers-only one when apiKey is empty or the client cannot be built.
func NewPreviewerFromAPIKey(apiKey string) *Previewer {
	if apiKey == "" {
		log.Printf("[MAPS] no API key configured, previews show markers only")
		return NewPreviewer(nil)
	}

	client, err := gmaps.NewClient(gmaps.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("[MAPS] client setup failed, previews show markers only: %v", err)
		return NewPreviewer(nil)
	}
	return NewPreviewer(client)
}

// Preview returns pickup and dropoff markers and, when available, the
// driving route between them. Route failures degrade to markers only.
func (p *Previewer) Preview(ctx context.Context, pickup, dropoff domain.Location) *Preview {
	preview := &Preview{
		Markers: []Marker{
			{Kind: MarkerPickup, Location: pickup},
			{Kind: MarkerDropoff, Location: dropoff},
		},
	}

	if p.client == nil {
		return preview
	}

	routes, _, err := p.client.Directions(ctx, &gmaps.DirectionsRequest{
		Origin:      latLng(pickup.Coordinates),
		Destination: latLng(dropoff.Coordinates),
		Mode:        gmaps.TravelModeDriving,
	})
	if err != nil {
		log.Printf("[MAPS] directions failed: %v", err)
		return preview
	}
	if len(routes) == 0 {
		return preview
	}

	preview.Route = toRoute(routes[0])
	return preview
}

func toRoute(r gmaps.Route) *Route {
	route := &Route{
		Polyline: r.OverviewPolyline.Points,
		Summary:  r.Summary,
	}
	for _, leg := range r.Legs {
		if leg == nil {
			continue
		}
		route.DistanceMeters += leg.Distance.Meters
		route.Duration += leg.Duration
	}
	route.DistanceText = fmt.Sprintf("%.1f km", float64(route.DistanceMeters)/1000)
	return route
}

func latLng(c domain.Coordinates) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}
