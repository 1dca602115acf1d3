package osm

// RawElement is one element of an Overpass response. Node-style elements carry
// lat/lon directly; way/relation-style elements carry a center sub-object.
type RawElement struct {
	Type   string   `json:"type"`
	ID     int64    `json:"id"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	Center *Center  `json:"center,omitempty"`
	Tags   RawTags  `json:"tags"`
}

// Center is the centroid attached to way/relation elements
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RawTags names the OSM tags the pipeline inspects. Everything is optional;
// the zero value means the tag was absent.
type RawTags struct {
	Amenity      string `json:"amenity,omitempty"`
	Healthcare   string `json:"healthcare,omitempty"`
	Speciality   string `json:"healthcare:speciality,omitempty"`
	Office       string `json:"office,omitempty"`
	Name         string `json:"name,omitempty"`
	Operator     string `json:"operator,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ContactPhone string `json:"contact:phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
	Emergency    string `json:"emergency,omitempty"`
	Dispensing   string `json:"dispensing,omitempty"`
	Beds         string `json:"beds,omitempty"`
	AddrCity     string `json:"addr:city,omitempty"`
	AddrStreet   string `json:"addr:street,omitempty"`
	AddrNumber   string `json:"addr:housenumber,omitempty"`
}
