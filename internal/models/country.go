package models

// Country is one entry of the country-name database.
type Country struct {
	Alpha2       string      `yaml:"alpha_2" json:"alpha_2"`
	Alpha3       CountryCode `yaml:"alpha_3" json:"alpha_3"`
	Name         string      `yaml:"name" json:"name"`
	OfficialName string      `yaml:"official_name,omitempty" json:"official_name,omitempty"`
	CommonName   string      `yaml:"common_name,omitempty" json:"common_name,omitempty"`
}

// Names returns every non-empty name of the country, primary name first.
func (c Country) Names() []string {
	names := make([]string, 0, 3)
	for _, n := range []string{c.Name, c.OfficialName, c.CommonName} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// BlocSets holds the membership sets used for region classification.
type BlocSets struct {
	SADC []CountryCode `yaml:"sadc" json:"sadc"`
	EU   []CountryCode `yaml:"eu" json:"eu"`
	Asia []CountryCode `yaml:"asia" json:"asia"`
}
