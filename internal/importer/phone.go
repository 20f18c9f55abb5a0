package importer

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tartampluch/orbita/internal/config"
)

// callingCode is the coarse position attributed to an international dialing
// prefix: the capital or main population center of the country.
type callingCode struct {
	prefix  string
	lat     float64
	lng     float64
	country string
}

// PhoneLocation is the result of a calling-code lookup.
type PhoneLocation struct {
	Prefix  string
	Lat     float64
	Lng     float64
	Country string
}

// callingCodes is sorted by descending prefix length so that a lookup can
// scan it once and stop at the first hit.
var callingCodes = sortCallingCodes([]callingCode{
	{"1", 38.9072, -77.0369, "United States"},
	{"7", 55.7558, 37.6173, "Russia"},
	{"20", 30.0444, 31.2357, "Egypt"},
	{"27", -25.7479, 28.2293, "South Africa"},
	{"30", 37.9838, 23.7275, "Greece"},
	{"31", 52.3676, 4.9041, "Netherlands"},
	{"32", 50.8503, 4.3517, "Belgium"},
	{"33", 48.8566, 2.3522, "France"},
	{"34", 40.4168, -3.7038, "Spain"},
	{"36", 47.4979, 19.0402, "Hungary"},
	{"39", 41.9028, 12.4964, "Italy"},
	{"40", 44.4268, 26.1025, "Romania"},
	{"41", 46.9480, 7.4474, "Switzerland"},
	{"43", 48.2082, 16.3738, "Austria"},
	{"44", 51.5074, -0.1278, "United Kingdom"},
	{"45", 55.6761, 12.5683, "Denmark"},
	{"46", 59.3293, 18.0686, "Sweden"},
	{"47", 59.9139, 10.7522, "Norway"},
	{"48", 52.2297, 21.0122, "Poland"},
	{"49", 52.5200, 13.4050, "Germany"},
	{"51", -12.0464, -77.0428, "Peru"},
	{"52", 19.4326, -99.1332, "Mexico"},
	{"53", 23.1136, -82.3666, "Cuba"},
	{"54", -34.6037, -58.3816, "Argentina"},
	{"55", -15.7939, -47.8828, "Brazil"},
	{"56", -33.4489, -70.6693, "Chile"},
	{"57", 4.7110, -74.0721, "Colombia"},
	{"58", 10.4806, -66.9036, "Venezuela"},
	{"60", 3.1390, 101.6869, "Malaysia"},
	{"61", -35.2809, 149.1300, "Australia"},
	{"62", -6.2088, 106.8456, "Indonesia"},
	{"63", 14.5995, 120.9842, "Philippines"},
	{"64", -41.2865, 174.7762, "New Zealand"},
	{"65", 1.3521, 103.8198, "Singapore"},
	{"66", 13.7563, 100.5018, "Thailand"},
	{"81", 35.6762, 139.6503, "Japan"},
	{"82", 37.5665, 126.9780, "South Korea"},
	{"84", 21.0278, 105.8342, "Vietnam"},
	{"86", 39.9042, 116.4074, "China"},
	{"90", 39.9334, 32.8597, "Turkey"},
	{"91", 28.6139, 77.2090, "India"},
	{"92", 33.6844, 73.0479, "Pakistan"},
	{"93", 34.5553, 69.2075, "Afghanistan"},
	{"94", 6.9271, 79.8612, "Sri Lanka"},
	{"95", 19.7633, 96.0785, "Myanmar"},
	{"98", 35.6892, 51.3890, "Iran"},
	{"212", 34.0209, -6.8416, "Morocco"},
	{"213", 36.7538, 3.0588, "Algeria"},
	{"216", 36.8065, 10.1815, "Tunisia"},
	{"218", 32.8872, 13.1913, "Libya"},
	{"221", 14.7167, -17.4677, "Senegal"},
	{"225", 5.3600, -4.0083, "Ivory Coast"},
	{"233", 5.6037, -0.1870, "Ghana"},
	{"234", 9.0765, 7.3986, "Nigeria"},
	{"237", 3.8480, 11.5021, "Cameroon"},
	{"251", 9.0300, 38.7400, "Ethiopia"},
	{"254", -1.2921, 36.8219, "Kenya"},
	{"255", -6.7924, 39.2083, "Tanzania"},
	{"256", 0.3476, 32.5825, "Uganda"},
	{"260", -15.3875, 28.3228, "Zambia"},
	{"263", -17.8252, 31.0335, "Zimbabwe"},
	{"351", 38.7223, -9.1393, "Portugal"},
	{"352", 49.6116, 6.1319, "Luxembourg"},
	{"353", 53.3498, -6.2603, "Ireland"},
	{"354", 64.1466, -21.9426, "Iceland"},
	{"355", 41.3275, 19.8187, "Albania"},
	{"356", 35.8989, 14.5146, "Malta"},
	{"357", 35.1856, 33.3823, "Cyprus"},
	{"358", 60.1699, 24.9384, "Finland"},
	{"359", 42.6977, 23.3219, "Bulgaria"},
	{"370", 54.6872, 25.2797, "Lithuania"},
	{"371", 56.9496, 24.1052, "Latvia"},
	{"372", 59.4370, 24.7536, "Estonia"},
	{"380", 50.4501, 30.5234, "Ukraine"},
	{"381", 44.7866, 20.4489, "Serbia"},
	{"385", 45.8150, 15.9819, "Croatia"},
	{"386", 46.0569, 14.5058, "Slovenia"},
	{"420", 50.0755, 14.4378, "Czech Republic"},
	{"421", 48.1486, 17.1077, "Slovakia"},
	{"501", 17.2510, -88.7590, "Belize"},
	{"502", 14.6349, -90.5069, "Guatemala"},
	{"503", 13.6929, -89.2182, "El Salvador"},
	{"504", 14.0723, -87.1921, "Honduras"},
	{"505", 12.1150, -86.2362, "Nicaragua"},
	{"506", 9.9281, -84.0907, "Costa Rica"},
	{"507", 8.9824, -79.5199, "Panama"},
	{"591", -16.4897, -68.1193, "Bolivia"},
	{"593", -0.1807, -78.4678, "Ecuador"},
	{"595", -25.2637, -57.5759, "Paraguay"},
	{"598", -34.9011, -56.1645, "Uruguay"},
	{"852", 22.3193, 114.1694, "Hong Kong"},
	{"855", 11.5564, 104.9282, "Cambodia"},
	{"880", 23.8103, 90.4125, "Bangladesh"},
	{"886", 25.0330, 121.5654, "Taiwan"},
	{"961", 33.8938, 35.5018, "Lebanon"},
	{"962", 31.9454, 35.9284, "Jordan"},
	{"963", 33.5138, 36.2765, "Syria"},
	{"964", 33.3152, 44.3661, "Iraq"},
	{"965", 29.3759, 47.9774, "Kuwait"},
	{"966", 24.7136, 46.6753, "Saudi Arabia"},
	{"968", 23.5880, 58.3829, "Oman"},
	{"971", 24.4539, 54.3773, "United Arab Emirates"},
	{"972", 31.7683, 35.2137, "Israel"},
	{"973", 26.2285, 50.5860, "Bahrain"},
	{"974", 25.2854, 51.5310, "Qatar"},
	{"977", 27.7172, 85.3240, "Nepal"},
	{"994", 40.4093, 49.8671, "Azerbaijan"},
	{"995", 41.7151, 44.8271, "Georgia"},
	{"998", 41.2995, 69.2401, "Uzbekistan"},
})

func sortCallingCodes(codes []callingCode) []callingCode {
	slices.SortStableFunc(codes, func(a, b callingCode) int {
		if c := cmp.Compare(len(b.prefix), len(a.prefix)); c != 0 {
			return c
		}
		return cmp.Compare(a.prefix, b.prefix)
	})
	return codes
}

// phoneStripper removes the punctuation commonly used to format numbers.
var phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// LookupPhoneLocation derives an approximate location from a phone number's
// calling code. Numbers written with "+" or "00" are taken as international;
// anything else needs at least ten digits to be considered. The longest
// matching prefix wins.
func LookupPhoneLocation(phone string) (PhoneLocation, bool) {
	digits := phoneStripper.Replace(strings.TrimSpace(phone))

	switch {
	case strings.HasPrefix(digits, config.PhonePlusPrefix):
		digits = strings.TrimPrefix(digits, config.PhonePlusPrefix)
	case strings.HasPrefix(digits, config.PhoneIntlAccessPrefix):
		digits = strings.TrimPrefix(digits, config.PhoneIntlAccessPrefix)
	case len(digits) < config.PhoneMinNationalDigits:
		return PhoneLocation{}, false
	}

	if digits == "" || !allDigits(digits) {
		return PhoneLocation{}, false
	}

	for _, code := range callingCodes {
		if strings.HasPrefix(digits, code.prefix) {
			return PhoneLocation{
				Prefix:  code.prefix,
				Lat:     code.lat,
				Lng:     code.lng,
				Country: code.country,
			}, true
		}
	}
	return PhoneLocation{}, false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
