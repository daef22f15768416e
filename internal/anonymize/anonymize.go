// Package anonymize derives stable codenames for project and pipeline
// names so a report can be shared without exposing real identifiers.
//
// The mapping is a pure function of the identifier set and the salt:
// identifiers are sorted canonically, a deterministic generator is
// seeded from a domain-separated hash of that sorted list, and
// codenames are assigned in seeded-shuffle order. No wall-clock time,
// no map iteration order, no process state. Within one report the
// mapping is injective; pool exhaustion falls back to a deterministic
// numbered suffix ("Nebula Station 2"), never to a collision.
package anonymize

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Mapping is the anonymization block of the report: real name to
// codename for every project and pipeline that appears anywhere in the
// document.
type Mapping struct {
	Projects  map[string]string `json:"projects"`
	Pipelines map[string]string `json:"pipelines"`
}

// Build derives the codename mapping for the given project and
// pipeline names. Duplicate input names are collapsed; an empty input
// yields an empty (non-nil) map so the report block is always present.
//
// The optional salt is appended to the seed input so two workspaces
// that happen to share identifier sets still get distinct mappings.
func Build(projectNames, pipelineNames []string, salt string) (Mapping, error) {
	projects, err := assign(projectNames, projectPool(), domainProjects, salt)
	if err != nil {
		return Mapping{}, fmt.Errorf("project codenames: %w", err)
	}
	pipelines, err := assign(pipelineNames, pipelinePool(), domainPipelines, salt)
	if err != nil {
		return Mapping{}, fmt.Errorf("pipeline codenames: %w", err)
	}
	return Mapping{Projects: projects, Pipelines: pipelines}, nil
}

// assign maps each distinct name to one pool entry. Names are sorted
// before assignment and the pool is shuffled by the seeded generator,
// so insertion order of the inputs cannot leak into the result.
func assign(names, pool []string, domain, salt string) (map[string]string, error) {
	ids := distinctSorted(names)

	seed, err := seedFor(domain, ids, salt)
	if err != nil {
		return nil, err
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out := make(map[string]string, len(ids))
	for i, id := range ids {
		codename := shuffled[i%len(shuffled)]
		if round := i / len(shuffled); round > 0 {
			codename = fmt.Sprintf("%s %d", codename, round+1)
		}
		out[id] = codename
	}
	return out, nil
}

func distinctSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
