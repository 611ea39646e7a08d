package geo

// Fence is the bounding box submitted coordinates must fall inside.
// The bounds are deployment configuration, not a domain invariant.
type Fence struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (f Fence) Contains(lat, lng float64) bool {
	return lat >= f.MinLat && lat <= f.MaxLat && lng >= f.MinLng && lng <= f.MaxLng
}
