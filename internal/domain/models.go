package domain

// Country is one normalized dataset record. Code is the upper-case ISO
// alpha-3 code and is unique within a loaded dataset.
type Country struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	Capital    string `json:"capital"`
	Region     string `json:"region"`
	Population int64  `json:"population"`
	Flag       string `json:"flag"` // emoji glyph or absolute URL
}

// HasFlagURL reports whether the flag is a remote image rather than an emoji
func (c Country) HasFlagURL() bool {
	return len(c.Flag) > 7 && (c.Flag[:7] == "http://" || (len(c.Flag) > 8 && c.Flag[:8] == "https://"))
}

// Point is a (longitude, latitude) pair in degrees
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// RegionGroup is one region chip: a region name and its member codes in
// dataset order
type RegionGroup struct {
	Name  string   `json:"name"`
	Codes []string `json:"codes"`
}

// Insights summarizes a dataset
type Insights struct {
	Countries    int   `json:"countries"`
	Regions      int   `json:"regions"`
	Population   int64 `json:"population"`
	WithCapitals int   `json:"with_capitals"`
}
