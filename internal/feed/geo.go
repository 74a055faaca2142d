package feed

import (
	"math"
	"strings"

	"github.com/garnizeh/neighborly/pkg/models"
)

// EarthRadiusMiles is the radius used for great-circle distances.
const EarthRadiusMiles = 3958.7613

// Radius presets map a named reach to a miles threshold. "all" (or an unknown
// preset) means unbounded.
const (
	RadiusNear  = "near"
	RadiusLocal = "local"
	RadiusArea  = "area"
	RadiusAll   = "all"
)

var radiusMiles = map[string]float64{
	RadiusNear:  1,
	RadiusLocal: 3,
	RadiusArea:  10,
}

// PresetMiles returns the miles threshold for a radius preset. ok is false for
// unbounded presets ("all", empty, or unrecognized).
func PresetMiles(preset string) (float64, bool) {
	m, ok := radiusMiles[preset]
	return m, ok
}

type town struct {
	Key    string
	Name   string
	Center models.GeoPoint
}

// gazetteer lists the towns the app knows about. Order matters: free-text
// matching returns the first hit.
var gazetteer = []town{
	{"maplewood", "Maplewood", models.GeoPoint{Lat: 40.7312, Lng: -74.2735}},
	{"south-orange", "South Orange", models.GeoPoint{Lat: 40.7490, Lng: -74.2613}},
	{"millburn", "Millburn", models.GeoPoint{Lat: 40.7296, Lng: -74.3246}},
	{"springfield", "Springfield", models.GeoPoint{Lat: 40.7043, Lng: -74.3174}},
	{"summit", "Summit", models.GeoPoint{Lat: 40.7154, Lng: -74.3647}},
	{"montclair", "Montclair", models.GeoPoint{Lat: 40.8259, Lng: -74.2090}},
	{"west-orange", "West Orange", models.GeoPoint{Lat: 40.7987, Lng: -74.2390}},
	{"livingston", "Livingston", models.GeoPoint{Lat: 40.7959, Lng: -74.3149}},
}

// ResolveTown looks up a town center by its explicit key.
func ResolveTown(key string) (models.GeoPoint, bool) {
	for _, t := range gazetteer {
		if t.Key == key {
			return t.Center, true
		}
	}
	return models.GeoPoint{}, false
}

// ResolveArea matches free-text location labels against the gazetteer. For
// each town (in gazetteer order) it tries, against each candidate text:
// case-insensitive substring, compacted substring (spaces and punctuation
// removed), then all-words containment. First match wins.
func ResolveArea(texts ...string) (models.GeoPoint, bool) {
	for _, t := range gazetteer {
		name := strings.ToLower(t.Name)
		for _, raw := range texts {
			s := strings.ToLower(strings.TrimSpace(raw))
			if s == "" {
				continue
			}
			if strings.Contains(s, name) {
				return t.Center, true
			}
			if strings.Contains(compact(s), compact(name)) {
				return t.Center, true
			}
			if containsAllWords(s, name) {
				return t.Center, true
			}
		}
	}
	return models.GeoPoint{}, false
}

func compact(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsAllWords(haystack, words string) bool {
	fields := strings.Fields(words)
	if len(fields) == 0 {
		return false
	}
	for _, w := range fields {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}

// PostCenter resolves a post's approximate location: the explicit town key if
// present, otherwise free-text matching of the area label and the owner's own
// location label.
func PostCenter(p models.Post, ownerLocation string) (models.GeoPoint, bool) {
	if p.TownKey != "" {
		if c, ok := ResolveTown(p.TownKey); ok {
			return c, true
		}
	}
	return ResolveArea(p.Area, ownerLocation)
}

// Haversine returns the great-circle distance between two points in miles.
func Haversine(a, b models.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
}
