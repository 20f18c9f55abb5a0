package importer

import (
	"encoding/json"
	"math"

	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/locale"
)

// ValidateContact checks one decoded JSON element. index is zero-based and is
// reported 1-based. Every required-field problem is collected before
// returning, so a caller sees all of them at once.
func (imp *Importer) ValidateContact(raw any, index int) Validation {
	pos := index + 1

	obj, ok := raw.(map[string]any)
	if !ok {
		return Validation{Errors: []string{
			imp.Catalog.Format(locale.MsgJSONNotObject, map[string]any{"Index": pos}),
		}}
	}

	var errs []string
	required := func(field string) {
		errs = append(errs, imp.Catalog.Format(locale.MsgJSONFieldRequired, map[string]any{"Index": pos, "Field": field}))
	}
	number := func(field string) {
		errs = append(errs, imp.Catalog.Format(locale.MsgJSONFieldNumber, map[string]any{"Index": pos, "Field": field}))
	}
	outOfRange := func(field string, lo, hi float64) {
		errs = append(errs, imp.Catalog.Format(locale.MsgJSONFieldRange, map[string]any{"Index": pos, "Field": field, "Min": lo, "Max": hi}))
	}

	firstName, ok := obj["firstName"].(string)
	if !ok || firstName == "" {
		required("firstName")
	}
	lastName, ok := obj["lastName"].(string)
	if !ok {
		required("lastName")
	}

	var loc Location
	rawLoc, ok := obj["location"].(map[string]any)
	if !ok {
		required("location")
	} else {
		if lat, ok := asNumber(rawLoc["lat"]); !ok {
			number("location.lat")
		} else if !validLat(lat) {
			outOfRange("location.lat", config.LatMin, config.LatMax)
		} else {
			loc.Lat = lat
		}
		if lng, ok := asNumber(rawLoc["lng"]); !ok {
			number("location.lng")
		} else if !validLng(lng) {
			outOfRange("location.lng", config.LngMin, config.LngMax)
		} else {
			loc.Lng = lng
		}
		if loc.City, ok = rawLoc["city"].(string); !ok || loc.City == "" {
			required("location.city")
		}
		if loc.Country, ok = rawLoc["country"].(string); !ok || loc.Country == "" {
			required("location.country")
		}
	}

	if len(errs) > 0 {
		return Validation{Errors: errs}
	}

	c := newContact()
	c.ID, _ = obj["id"].(string)
	if c.ID == "" {
		c.ID = imp.newID()
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.Location = loc
	c.PhotoURL, _ = obj["photoUrl"].(string)
	c.Bio, _ = obj["bio"].(string)
	c.Email, _ = obj["email"].(string)
	c.Tags = stringItems(obj["tags"])
	c.Languages = stringItems(obj["languages"])
	c.SocialLinks = socialLinkItems(obj["socialLinks"])
	c.Attributes = scalarAttributes(obj["attributes"])

	if y, ok := asNumber(obj["birthYear"]); ok && y == math.Trunc(y) && validBirthYear(int(y)) {
		c.BirthYear = int(y)
	}

	return Validation{Valid: true, Contact: &c}
}

// asNumber accepts the numeric shapes produced by encoding/json and by Go callers.
func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// stringItems keeps the string elements of an array; anything else yields [].
func stringItems(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// socialLinkItems keeps entries that carry a string platform and url.
func socialLinkItems(v any) []SocialLink {
	out := []SocialLink{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		platform, okP := obj["platform"].(string)
		url, okU := obj["url"].(string)
		if !okP || !okU {
			continue
		}
		icon, _ := obj["icon"].(string)
		out = append(out, SocialLink{Platform: platform, URL: url, Icon: icon})
	}
	return out
}

// scalarAttributes keeps string, number and boolean values. Numbers are
// stored as float64.
func scalarAttributes(v any) map[string]any {
	out := map[string]any{}
	obj, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for key, value := range obj {
		switch val := value.(type) {
		case string, bool:
			out[key] = val
		default:
			if f, ok := asNumber(val); ok {
				out[key] = f
			}
		}
	}
	return out
}
