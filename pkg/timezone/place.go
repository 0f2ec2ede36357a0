package timezone

import "strings"

// Place is the display triple shown for a timezone.
type Place struct {
	Region  string `json:"region" yaml:"region"`
	Country string `json:"country" yaml:"country"`
	City    string `json:"city" yaml:"city"`
}

// overrides maps commonly used identifiers to a friendlier grouping.
// Keys are current canonical tz database identifiers.
var overrides = map[string]Place{
	// Asia
	"Asia/Tokyo":        {"Asia", "Japan", "Tokyo"},
	"Asia/Seoul":        {"Asia", "South Korea", "Seoul"},
	"Asia/Shanghai":     {"Asia", "China", "Shanghai"},
	"Asia/Hong_Kong":    {"Asia", "Hong Kong", "Hong Kong"},
	"Asia/Taipei":       {"Asia", "Taiwan", "Taipei"},
	"Asia/Singapore":    {"Asia", "Singapore", "Singapore"},
	"Asia/Bangkok":      {"Asia", "Thailand", "Bangkok"},
	"Asia/Jakarta":      {"Asia", "Indonesia", "Jakarta"},
	"Asia/Manila":       {"Asia", "Philippines", "Manila"},
	"Asia/Kuala_Lumpur": {"Asia", "Malaysia", "Kuala Lumpur"},
	"Asia/Kolkata":      {"Asia", "India", "Kolkata"},
	"Asia/Karachi":      {"Asia", "Pakistan", "Karachi"},
	"Asia/Dubai":        {"Asia", "UAE", "Dubai"},
	"Asia/Tehran":       {"Asia", "Iran", "Tehran"},
	"Asia/Jerusalem":    {"Asia", "Israel", "Jerusalem"},
	"Europe/Istanbul":   {"Asia", "Turkey", "Istanbul"},
	"Asia/Riyadh":       {"Asia", "Saudi Arabia", "Riyadh"},
	"Asia/Yerevan":      {"Asia", "Armenia", "Yerevan"},
	"Asia/Baku":         {"Asia", "Azerbaijan", "Baku"},
	"Asia/Tbilisi":      {"Asia", "Georgia", "Tbilisi"},
	"Asia/Almaty":       {"Asia", "Kazakhstan", "Almaty"},
	"Asia/Tashkent":     {"Asia", "Uzbekistan", "Tashkent"},
	"Asia/Bishkek":      {"Asia", "Kyrgyzstan", "Bishkek"},
	"Asia/Dushanbe":     {"Asia", "Tajikistan", "Dushanbe"},
	"Asia/Kabul":        {"Asia", "Afghanistan", "Kabul"},
	"Asia/Dhaka":        {"Asia", "Bangladesh", "Dhaka"},
	"Asia/Kathmandu":    {"Asia", "Nepal", "Kathmandu"},
	"Asia/Colombo":      {"Asia", "Sri Lanka", "Colombo"},
	"Asia/Yangon":       {"Asia", "Myanmar", "Yangon"},
	"Asia/Phnom_Penh":   {"Asia", "Cambodia", "Phnom Penh"},
	"Asia/Vientiane":    {"Asia", "Laos", "Vientiane"},
	"Asia/Ho_Chi_Minh":  {"Asia", "Vietnam", "Ho Chi Minh"},
	"Asia/Ulaanbaatar":  {"Asia", "Mongolia", "Ulaanbaatar"},

	// Europe
	"Europe/London":      {"Europe", "United Kingdom", "London"},
	"Europe/Paris":       {"Europe", "France", "Paris"},
	"Europe/Berlin":      {"Europe", "Germany", "Berlin"},
	"Europe/Rome":        {"Europe", "Italy", "Rome"},
	"Europe/Madrid":      {"Europe", "Spain", "Madrid"},
	"Europe/Amsterdam":   {"Europe", "Netherlands", "Amsterdam"},
	"Europe/Brussels":    {"Europe", "Belgium", "Brussels"},
	"Europe/Vienna":      {"Europe", "Austria", "Vienna"},
	"Europe/Zurich":      {"Europe", "Switzerland", "Zurich"},
	"Europe/Prague":      {"Europe", "Czech Republic", "Prague"},
	"Europe/Budapest":    {"Europe", "Hungary", "Budapest"},
	"Europe/Warsaw":      {"Europe", "Poland", "Warsaw"},
	"Europe/Stockholm":   {"Europe", "Sweden", "Stockholm"},
	"Europe/Oslo":        {"Europe", "Norway", "Oslo"},
	"Europe/Copenhagen":  {"Europe", "Denmark", "Copenhagen"},
	"Europe/Helsinki":    {"Europe", "Finland", "Helsinki"},
	"Europe/Athens":      {"Europe", "Greece", "Athens"},
	"Europe/Bucharest":   {"Europe", "Romania", "Bucharest"},
	"Europe/Sofia":       {"Europe", "Bulgaria", "Sofia"},
	"Europe/Kyiv":        {"Europe", "Ukraine", "Kyiv"},
	"Europe/Minsk":       {"Europe", "Belarus", "Minsk"},
	"Europe/Moscow":      {"Europe", "Russia", "Moscow"},
	"Europe/Dublin":      {"Europe", "Ireland", "Dublin"},
	"Europe/Lisbon":      {"Europe", "Portugal", "Lisbon"},
	"Atlantic/Reykjavik": {"Europe", "Iceland", "Reykjavik"},

	// Americas
	"America/New_York":               {"America", "United States", "New York"},
	"America/Chicago":                {"America", "United States", "Chicago"},
	"America/Denver":                 {"America", "United States", "Denver"},
	"America/Los_Angeles":            {"America", "United States", "Los Angeles"},
	"America/Phoenix":                {"America", "United States", "Phoenix"},
	"America/Anchorage":              {"America", "United States", "Anchorage"},
	"America/Toronto":                {"America", "Canada", "Toronto"},
	"America/Vancouver":              {"America", "Canada", "Vancouver"},
	"America/Winnipeg":               {"America", "Canada", "Winnipeg"},
	"America/Edmonton":               {"America", "Canada", "Edmonton"},
	"America/Halifax":                {"America", "Canada", "Halifax"},
	"America/St_Johns":               {"America", "Canada", "St Johns"},
	"America/Mexico_City":            {"America", "Mexico", "Mexico City"},
	"America/Tijuana":                {"America", "Mexico", "Tijuana"},
	"America/Sao_Paulo":              {"America", "Brazil", "Sao Paulo"},
	"America/Argentina/Buenos_Aires": {"America", "Argentina", "Buenos Aires"},
	"America/Santiago":               {"America", "Chile", "Santiago"},
	"America/Lima":                   {"America", "Peru", "Lima"},
	"America/Bogota":                 {"America", "Colombia", "Bogota"},
	"America/Caracas":                {"America", "Venezuela", "Caracas"},
	"America/La_Paz":                 {"America", "Bolivia", "La Paz"},
	"America/Montevideo":             {"America", "Uruguay", "Montevideo"},
	"America/Asuncion":               {"America", "Paraguay", "Asuncion"},
	"America/Guyana":                 {"America", "Guyana", "Georgetown"},
	"America/Paramaribo":             {"America", "Suriname", "Paramaribo"},
	"America/Cayenne":                {"America", "French Guiana", "Cayenne"},

	// Africa
	"Africa/Cairo":        {"Africa", "Egypt", "Cairo"},
	"Africa/Lagos":        {"Africa", "Nigeria", "Lagos"},
	"Africa/Johannesburg": {"Africa", "South Africa", "Johannesburg"},
	"Africa/Nairobi":      {"Africa", "Kenya", "Nairobi"},
	"Africa/Casablanca":   {"Africa", "Morocco", "Casablanca"},
	"Africa/Algiers":      {"Africa", "Algeria", "Algiers"},
	"Africa/Tunis":        {"Africa", "Tunisia", "Tunis"},
	"Africa/Addis_Ababa":  {"Africa", "Ethiopia", "Addis Ababa"},
	"Africa/Accra":        {"Africa", "Ghana", "Accra"},
	"Africa/Kinshasa":     {"Africa", "Congo", "Kinshasa"},

	// Oceania
	"Australia/Sydney":     {"Oceania", "Australia", "Sydney"},
	"Australia/Melbourne":  {"Oceania", "Australia", "Melbourne"},
	"Australia/Brisbane":   {"Oceania", "Australia", "Brisbane"},
	"Australia/Perth":      {"Oceania", "Australia", "Perth"},
	"Australia/Adelaide":   {"Oceania", "Australia", "Adelaide"},
	"Australia/Darwin":     {"Oceania", "Australia", "Darwin"},
	"Pacific/Auckland":     {"Oceania", "New Zealand", "Auckland"},
	"Pacific/Fiji":         {"Oceania", "Fiji", "Suva"},
	"Pacific/Honolulu":     {"Oceania", "Hawaii", "Honolulu"},
	"Pacific/Guam":         {"Oceania", "Guam", "Hagatna"},
	"Pacific/Port_Moresby": {"Oceania", "Papua New Guinea", "Port Moresby"},
	"Pacific/Noumea":       {"Oceania", "New Caledonia", "Noumea"},
	"Pacific/Tahiti":       {"Oceania", "French Polynesia", "Tahiti"},
}

// describe derives Region from the first path segment and City from the last.
// Without an override, Country repeats Region, except that "America" reads
// "United States" for every zone; Canadian or Brazilian zones without an
// override are labelled as US ones.
func describe(id string, table map[string]Place) Place {
	if p, ok := table[id]; ok {
		return p
	}
	region, _, _ := strings.Cut(id, "/")
	city := strings.ReplaceAll(id[strings.LastIndex(id, "/")+1:], "_", " ")
	country := region
	if region == "America" {
		country = "United States"
	}
	return Place{Region: region, Country: country, City: city}
}
