// Package reference holds the static lookup tables consulted by field
// normalization: team, city and round aliases plus the numeric ID maps of
// the 2018 source.
package reference

import (
	"maps"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tables is one version of the reference data. A Normalizer receives a
// Tables value at construction and never mutates it.
type Tables struct {
	Teams        map[string]string `yaml:"teams"`
	Cities       map[string]string `yaml:"cities"`
	Rounds       map[string]string `yaml:"rounds"`
	Teams2018    map[int]string    `yaml:"teams_2018"`
	Stadiums2018 map[int]string    `yaml:"stadiums_2018"`
}

// Default returns fresh copies of the built-in tables.
func Default() Tables {
	return Tables{
		Teams:        maps.Clone(teamAliases),
		Cities:       maps.Clone(cityAliases),
		Rounds:       maps.Clone(roundAliases),
		Teams2018:    maps.Clone(teams2018),
		Stadiums2018: maps.Clone(stadiums2018),
	}
}

// Merge copies every entry of o onto t, replacing existing keys.
func (t Tables) Merge(o Tables) Tables {
	out := Tables{
		Teams:        mergeInto(t.Teams, o.Teams),
		Cities:       mergeInto(t.Cities, o.Cities),
		Rounds:       mergeInto(t.Rounds, o.Rounds),
		Teams2018:    mergeInto(t.Teams2018, o.Teams2018),
		Stadiums2018: mergeInto(t.Stadiums2018, o.Stadiums2018),
	}
	return out
}

func mergeInto[K comparable](base, extra map[K]string) map[K]string {
	out := make(map[K]string, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}

// LoadOverrides reads a YAML file of extra aliases and merges it onto the
// defaults. An empty path returns the defaults unchanged.
//
//	teams:
//	  "Zaire": "DR Congo"
//	cities:
//	  "Saint-Étienne": "Saint-Etienne"
func LoadOverrides(path string) (Tables, error) {
	def := Default()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, eris.Wrapf(err, "reference: read overrides %s", path)
	}

	var extra Tables
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return Tables{}, eris.Wrap(err, "reference: parse overrides")
	}

	return def.Merge(extra), nil
}
