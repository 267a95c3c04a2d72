package datastructure

// BoundingBox. north/south latitudes & east/west longitudes of a region, in degrees
type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) *BoundingBox {
	return &BoundingBox{minLat: minLat,
		minLon: minLon,
		maxLat: maxLat,
		maxLon: maxLon}
}

func (b *BoundingBox) GetMinCoord() (float64, float64) {
	return b.minLat, b.minLon
}

func (b *BoundingBox) GetMaxCoord() (float64, float64) {
	return b.maxLat, b.maxLon
}

func (b *BoundingBox) GetMinLat() float64 {
	return b.minLat
}

func (b *BoundingBox) GetMinLon() float64 {
	return b.minLon
}

func (b *BoundingBox) GetMaxLat() float64 {
	return b.maxLat
}

func (b *BoundingBox) GetMaxLon() float64 {
	return b.maxLon
}

func (b *BoundingBox) North() float64 {
	return b.maxLat
}

func (b *BoundingBox) South() float64 {
	return b.minLat
}

func (b *BoundingBox) East() float64 {
	return b.maxLon
}

func (b *BoundingBox) West() float64 {
	return b.minLon
}

func (b *BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}

func (b *BoundingBox) IsValid() bool {
	return b.minLat < b.maxLat && b.minLon < b.maxLon &&
		b.minLat >= -90 && b.maxLat <= 90 && b.minLon >= -180 && b.maxLon <= 180
}
