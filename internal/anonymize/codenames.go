package anonymize

// Curated codename vocabulary. Projects get "<First> <Second>" pairs
// ("Nebula Station"); pipelines get "Operation <Word>" / "Protocol
// <Word>". The lists are fixed: changing them changes every mapping,
// which is effectively a schema change for anyone diffing shared
// reports.

var projectFirstWords = []string{
	"Nebula", "Quasar", "Aurora", "Comet", "Zenith", "Orion",
	"Lunar", "Solar", "Cosmic", "Stellar", "Nova", "Pulsar",
	"Meteor", "Astral", "Radiant", "Umbra", "Vega", "Titan",
	"Drift", "Echo", "Polar", "Ion", "Borealis", "Cirrus",
}

var projectSecondWords = []string{
	"Station", "Harbor", "Outpost", "Garden", "Forge", "Summit",
	"Reef", "Canyon", "Atlas", "Beacon", "Vault", "Orchard",
	"Bridge", "Grove", "Spire", "Haven",
}

var pipelineWords = []string{
	"Falcon", "Glacier", "Thunder", "Mirage", "Sierra", "Cobalt",
	"Ember", "Horizon", "Juniper", "Kestrel", "Lantern", "Monsoon",
	"Nimbus", "Onyx", "Pinnacle", "Quartz", "Saffron", "Tempest",
	"Vortex", "Willow", "Xenon", "Zephyr", "Basalt", "Cinder",
	"Dune", "Eclipse", "Fjord", "Granite", "Harbinger", "Inlet",
}

var pipelinePrefixes = []string{"Operation", "Protocol"}

// projectPool expands the word pairs into the full candidate pool in a
// fixed order; the seeded shuffle supplies the per-workspace ordering.
func projectPool() []string {
	pool := make([]string, 0, len(projectFirstWords)*len(projectSecondWords))
	for _, a := range projectFirstWords {
		for _, b := range projectSecondWords {
			pool = append(pool, a+" "+b)
		}
	}
	return pool
}

// pipelinePool pairs every prefix with every word.
func pipelinePool() []string {
	pool := make([]string, 0, len(pipelinePrefixes)*len(pipelineWords))
	for _, p := range pipelinePrefixes {
		for _, w := range pipelineWords {
			pool = append(pool, p+" "+w)
		}
	}
	return pool
}
