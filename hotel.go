package hotelscraper

// HotelRecord is the structured result for one successfully fetched detail
// page. A nil field means the value was not found on the page.
type HotelRecord struct {
	URL       string   `json:"url"`
	Name      *string  `json:"name"`
	Phone     *string  `json:"phone"`
	Email     *string  `json:"email"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Validate returns an error if the record has no detail-page URL.
func (r *HotelRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "hotel record URL required")
	}
	return nil
}

// HasGeo reports whether both coordinates are present.
func (r *HotelRecord) HasGeo() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Fields holds the values an Extractor found on one detail page.
type Fields struct {
	Name      *string
	Address   *string
	Phone     *string
	Email     *string
	Latitude  *float64
	Longitude *float64
}

// Record builds the HotelRecord for url from the extracted fields.
func (f Fields) Record(url string) HotelRecord {
	return HotelRecord{
		URL:       url,
		Name:      f.Name,
		Phone:     f.Phone,
		Email:     f.Email,
		Address:   f.Address,
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
	}
}

// ListingCandidate is a hotel card read from a dynamically rendered listing.
// It only lives long enough to build a detail URL.
type ListingCandidate struct {
	Index        int // 1-based position in the listing
	Name         string
	PropertyCode string
	Latitude     *float64
	Longitude    *float64
}
