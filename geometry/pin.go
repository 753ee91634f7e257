package geometry

// Pin 是用户指定的定位点，每个轴都可以留空，留空时在解析阶段取边界框中心。
type Pin struct {
	Lon    float64
	Lat    float64
	LonSet bool
	LatSet bool
}

// PinAt 返回两个轴都已指定的定位点。
func PinAt(lon, lat float64) Pin {
	return Pin{Lon: lon, Lat: lat, LonSet: true, LatSet: true}
}

// WithLon 返回指定了经度的副本。
func (p Pin) WithLon(lon float64) Pin {
	p.Lon, p.LonSet = lon, true
	return p
}

// WithLat 返回指定了纬度的副本。
func (p Pin) WithLat(lat float64) Pin {
	p.Lat, p.LatSet = lat, true
	return p
}

// ResolvePin 用边界框中心补全未指定的轴，两个轴相互独立。
func ResolvePin(b BoundingBox, p Pin) Point {
	out := Point{Lon: p.Lon, Lat: p.Lat}
	if !p.LonSet {
		out.Lon = (b.LonMin + b.LonMax) / 2
	}
	if !p.LatSet {
		out.Lat = (b.LatMin + b.LatMax) / 2
	}
	return out
}
