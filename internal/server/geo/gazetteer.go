// Package geo resolves place names mentioned in free-text routes and measures
// distances between coordinates.
package geo

import "strings"

type Place struct {
	Name string
	Lat  float64
	Lon  float64
}

// Matcher extracts the known places a route text mentions.
type Matcher interface {
	Extract(text string) []Place
}

// Gazetteer is a fixed, ordered name table. Matches are returned in table
// order.
type Gazetteer struct {
	places []Place
}

func NewGazetteer(places []Place) *Gazetteer {
	cp := make([]Place, len(places))
	copy(cp, places)
	return &Gazetteer{places: cp}
}

// NewDefaultGazetteer returns the Jammu & Kashmir and Ladakh table.
func NewDefaultGazetteer() *Gazetteer {
	return NewGazetteer(defaultPlaces)
}

var separatorReplacer = strings.NewReplacer("/", " ", "-", " ", ",", " ")

func normalizeRoute(text string) string {
	return separatorReplacer.Replace(strings.ToLower(text))
}

// Extract returns every place whose name occurs as a substring of the
// normalized text. Aliases sharing coordinates may all be returned.
func (g *Gazetteer) Extract(text string) []Place {
	norm := normalizeRoute(text)
	if strings.TrimSpace(norm) == "" {
		return nil
	}

	var out []Place
	for _, p := range g.places {
		if strings.Contains(norm, p.Name) {
			out = append(out, p)
		}
	}
	return out
}

func (g *Gazetteer) Len() int { return len(g.places) }

var defaultPlaces = []Place{
	{"srinagar", 34.0837, 74.7973},
	{"kashmir", 34.0837, 74.7973},
	{"gulmarg", 34.0484, 74.3805},
	{"pahalgam", 34.0159, 75.3162},
	{"sonamarg", 34.3039, 75.2938},
	{"jammu", 32.7266, 74.8570},
	{"jammu city", 32.7266, 74.8570},
	{"katra", 32.9916, 74.9319},
	{"vaishno devi", 33.0302, 74.9499},
	{"patnitop", 33.0843, 75.3260},
	{"anantnag", 33.7307, 75.1542},
	{"baramulla", 34.1980, 74.3636},
	{"kupwara", 34.5261, 74.2570},
	{"amarnath", 34.2145, 75.5025},
	{"kishtwar", 33.3136, 75.7673},
	{"bhaderwah", 32.9794, 75.7172},
	{"doda", 33.1456, 75.5482},
	{"udhampur", 32.9253, 75.1352},
	{"reasi", 33.0812, 74.8324},
	{"rajouri", 33.3783, 74.3155},
	{"poonch", 33.7703, 74.0921},
	{"bandipora", 34.4170, 74.6431},
	{"ganderbal", 34.2257, 74.7718},
	{"pulwama", 33.8741, 74.8996},
	{"shopian", 33.7171, 74.8349},
	{"kulgam", 33.6454, 75.0168},
	{"budgam", 34.0209, 74.7238},
	{"verinag", 33.5494, 75.2510},
	{"yusmarg", 33.8230, 74.6623},
	{"kokernag", 33.5846, 75.3344},
	{"dachigam", 34.0887, 74.9368},
	{"leh", 34.1526, 77.5770},
	{"dal lake", 34.1183, 74.8920},
}
