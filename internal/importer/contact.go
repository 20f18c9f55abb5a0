package importer

// Location is an approximate position on the map.
// Lat and Lng are both zero when no coordinate source was found.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

// SocialLink points to a contact's profile on an external platform.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon,omitempty"`
}

// Contact is the normalized record produced by every import path.
type Contact struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
	Location  Location `json:"location"`

	// BirthYear is zero when unknown. Valid years lie strictly between 1900 and 2100.
	BirthYear int `json:"birthYear,omitempty"`

	Tags        []string     `json:"tags"`
	Languages   []string     `json:"languages"`
	Bio         string       `json:"bio,omitempty"`
	Email       string       `json:"email,omitempty"`
	SocialLinks []SocialLink `json:"socialLinks"`

	// Attributes holds only string, float64 and bool values.
	Attributes map[string]any `json:"attributes"`
}

// Result is the outcome of one import run. Failures never surface as Go errors;
// they are reported in Errors and Warnings.
type Result struct {
	Success  bool      `json:"success"`
	Contacts []Contact `json:"contacts"`
	Errors   []string  `json:"errors"`
	Warnings []string  `json:"warnings"`
}

// Validation is the per-element outcome of ValidateContact.
// Contact is set only when Valid is true.
type Validation struct {
	Valid   bool
	Contact *Contact
	Errors  []string
}

// Photo is an uploaded image candidate for MapPhotos. Name is the original filename.
type Photo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func newContact() Contact {
	return Contact{
		Tags:        []string{},
		Languages:   []string{},
		SocialLinks: []SocialLink{},
		Attributes:  map[string]any{},
	}
}

func failed(errs ...string) Result {
	return Result{
		Success:  false,
		Contacts: []Contact{},
		Errors:   errs,
		Warnings: []string{},
	}
}
