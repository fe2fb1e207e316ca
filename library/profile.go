package library

// Profile tunes the stock leaves for a kind of pilot. Fractions are 0.0–1.0,
// ranges are in metres.
type Profile struct {
	Name                 string  `yaml:"name" json:"name"`
	LosingEnergyFraction float64 `yaml:"losing_energy_fraction" json:"losing_energy_fraction"`
	ThreatRange          float64 `yaml:"threat_range" json:"threat_range"`
	FleeRange            float64 `yaml:"flee_range" json:"flee_range"`
	CruiseFraction       float64 `yaml:"cruise_fraction" json:"cruise_fraction"`
	SendsDistressCalls   bool    `yaml:"sends_distress_calls" json:"sends_distress_calls"`
	WatchForCargo        bool    `yaml:"watch_for_cargo" json:"watch_for_cargo"`
	// Waypoints names the waypoint generator installed by Prepare.
	Waypoints string `yaml:"waypoints" json:"waypoints"`
}

// DefaultProfile is an ordinary trader.
func DefaultProfile() Profile {
	return Profile{
		Name:                 "Trader",
		LosingEnergyFraction: 0.25,
		ThreatRange:          25600,
		FleeRange:            25600,
		CruiseFraction:       0.8,
		SendsDistressCalls:   true,
	}
}

// Validate clamps every field to its usable range.
func (p *Profile) Validate() {
	p.LosingEnergyFraction = clamp(p.LosingEnergyFraction, 0, 1)
	p.CruiseFraction = clamp(p.CruiseFraction, 0.1, 1)
	p.ThreatRange = clamp(p.ThreatRange, 1000, 100000)
	p.FleeRange = clamp(p.FleeRange, 1000, 100000)
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
