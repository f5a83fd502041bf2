package features

import (
	"regexp"
	"sort"
	"strings"

	"github.com/skillra/hh-harvester/internal/types"
)

// City tiers.
const (
	TierMoscow      = "Moscow"
	TierSPb         = "SPb"
	TierMillionPlus = "Million+"
	TierOtherRU     = "Other RU"
	TierKZOther     = "KZ/Other"
)

var (
	metroMarker    = regexp.MustCompile(`(?:^|[^\p{L}])(?:м\.|метро)\s*([^,;\n]+)`)
	districtMarker = regexp.MustCompile(`(?:^|[^\p{L}])(?:р-н|мкр|район|округ|ао(?:[^\p{L}]|$))`)
)

var millionPlusCities = setOf(
	"новосибирск", "novosibirsk",
	"екатеринбург", "yekaterinburg", "ekaterinburg",
	"нижний новгород", "nizhny novgorod",
	"казань", "kazan",
	"челябинск", "chelyabinsk",
	"самара", "samara",
	"омск", "omsk",
	"ростов-на-дону", "rostov-on-don", "rostov-na-donu",
	"уфа", "ufa",
	"красноярск", "krasnoyarsk",
	"пермь", "perm",
	"воронеж", "voronezh",
	"волгоград", "volgograd",
	"краснодар", "krasnodar",
)

var otherRussianCities = setOf(
	"тула", "ярославль", "тверь", "иркутск", "томск", "калининград", "владивосток",
	"хабаровск", "тюмень", "ижевск", "барнаул", "саратов", "ульяновск", "оренбург",
	"рязань", "пенза", "липецк", "киров", "чебоксары", "кемерово", "новокузнецк",
	"астрахань", "набережные челны", "махачкала", "сочи", "белгород", "курск",
	"владимир", "смоленск", "калуга", "иваново", "брянск", "архангельск", "мурманск",
	"сургут", "вологда", "петрозаводск", "севастополь", "симферополь", "ставрополь",
	"тольятти", "иннополис", "зеленоград", "химки", "мытищи", "королев", "подольск",
	"балашиха", "красногорск", "одинцово", "люберцы", "долгопрудный", "реутов",
	"дубна", "обнинск", "великий новгород", "псков", "якутск", "улан-удэ", "чита",
	"йошкар-ола", "саранск", "тамбов", "орел", "кострома", "нижневартовск",
)

var kzOtherCities = setOf(
	"алматы", "астана", "нур-султан", "шымкент", "караганда", "актобе", "павлодар",
	"минск", "гомель", "брест", "гродно", "витебск", "могилев",
	"ташкент", "самарканд", "бишкек", "ереван", "баку", "тбилиси", "батуми",
	"кишинев", "душанбе", "ашхабад", "киев", "харьков", "одесса", "днепр", "львов",
)

func setOf(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[Normalize(it)] = struct{}{}
	}
	return m
}

// CityFromAddress returns the text before the first comma.
func CityFromAddress(address *string) *string {
	if address == nil {
		return nil
	}
	city, _, _ := strings.Cut(*address, ",")
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}
	return &city
}

// CityTier maps a city name to its tier; unrecognized or absent names are unknown.
func CityTier(city *string) string {
	if city == nil {
		return types.Unknown
	}
	c := Normalize(strings.TrimSpace(*city))
	switch {
	case strings.Contains(c, "москва") || strings.Contains(c, "moscow"):
		return TierMoscow
	case strings.Contains(c, "петербург") || c == "спб" || c == "spb" || strings.Contains(c, "petersburg"):
		return TierSPb
	}
	if _, ok := millionPlusCities[c]; ok {
		return TierMillionPlus
	}
	if _, ok := otherRussianCities[c]; ok {
		return TierOtherRU
	}
	if _, ok := kzOtherCities[c]; ok {
		return TierKZOther
	}
	return types.Unknown
}

// FindMetro returns the stations named in the address, in address order.
// Explicit "м." or "метро" markers count even for stations missing from the
// gazetteer; those are reported in normalized form.
func FindMetro(address string) []string {
	hits := metroStations.Find(address)

	norm := Normalize(address)
	for _, idx := range metroMarker.FindAllStringSubmatchIndex(norm, -1) {
		if name := strings.TrimSpace(norm[idx[2]:idx[3]]); name != "" {
			hits = append(hits, Hit{Name: name, Pos: idx[2]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Pos < hits[j].Pos })

	var stations []string
	seen := make(map[string]struct{})
	for _, h := range hits {
		key := Normalize(h.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		stations = append(stations, h.Name)
	}
	return stations
}

// HasDistrict reports whether the address names a district or administrative area.
func HasDistrict(address string) bool {
	return districtMarker.MatchString(Normalize(address))
}
