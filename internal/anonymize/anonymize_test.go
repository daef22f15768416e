package anonymize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuild_Deterministic verifies the mapping is a pure function of
// the identifier set and salt: repeated builds agree, and input order
// is irrelevant.
func TestBuild_Deterministic(t *testing.T) {
	projects := []string{"fraud-detection", "churn-model", "recsys"}
	pipelines := []string{"train", "eval", "deploy"}

	first, err := Build(projects, pipelines, "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Build(projects, pipelines, "")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	reordered, err := Build(
		[]string{"recsys", "fraud-detection", "churn-model"},
		[]string{"deploy", "train", "eval"},
		"",
	)
	require.NoError(t, err)
	assert.Equal(t, first, reordered)
}

// TestBuild_Injective verifies no two distinct identifiers share a
// codename within one report.
func TestBuild_Injective(t *testing.T) {
	var projects, pipelines []string
	for i := 0; i < 100; i++ {
		projects = append(projects, fmt.Sprintf("project-%03d", i))
		pipelines = append(pipelines, fmt.Sprintf("pipeline-%03d", i))
	}

	m, err := Build(projects, pipelines, "")
	require.NoError(t, err)

	assertInjective(t, m.Projects)
	assertInjective(t, m.Pipelines)
}

func assertInjective(t *testing.T, m map[string]string) {
	t.Helper()
	seen := make(map[string]string, len(m))
	for real, codename := range m {
		prev, dup := seen[codename]
		assert.False(t, dup, "codename %q assigned to %q and %q", codename, prev, real)
		seen[codename] = real
	}
}

// TestBuild_SaltChangesMapping verifies two workspaces with identical
// identifier sets get distinct mappings under different salts.
func TestBuild_SaltChangesMapping(t *testing.T) {
	projects := []string{"alpha", "beta", "gamma", "delta"}

	plain, err := Build(projects, nil, "")
	require.NoError(t, err)
	salted, err := Build(projects, nil, "workspace-1")
	require.NoError(t, err)

	assert.NotEqual(t, plain.Projects, salted.Projects)
}

// TestBuild_PoolExhaustion verifies the deterministic numbered
// fallback: more identifiers than pool entries yields "<Codename> 2"
// style names, still injective.
func TestBuild_PoolExhaustion(t *testing.T) {
	poolSize := len(pipelinePool())
	var pipelines []string
	for i := 0; i < poolSize+3; i++ {
		pipelines = append(pipelines, fmt.Sprintf("pipe-%04d", i))
	}

	m, err := Build(nil, pipelines, "")
	require.NoError(t, err)
	require.Len(t, m.Pipelines, poolSize+3)

	assertInjective(t, m.Pipelines)

	suffixed := 0
	for _, codename := range m.Pipelines {
		if strings.HasSuffix(codename, " 2") {
			suffixed++
		}
	}
	assert.Equal(t, 3, suffixed)
}

// TestBuild_CodenameShape verifies project codenames are word pairs
// and pipeline codenames carry the Operation/Protocol prefix.
func TestBuild_CodenameShape(t *testing.T) {
	m, err := Build([]string{"secret-project"}, []string{"secret-pipeline"}, "")
	require.NoError(t, err)

	project := m.Projects["secret-project"]
	assert.Len(t, strings.Fields(project), 2)

	pipeline := m.Pipelines["secret-pipeline"]
	prefix := strings.Fields(pipeline)[0]
	assert.Contains(t, []string{"Operation", "Protocol"}, prefix)
}

// TestBuild_Empty verifies empty input yields empty, non-nil maps so
// the report block is always present.
func TestBuild_Empty(t *testing.T) {
	m, err := Build(nil, nil, "")
	require.NoError(t, err)

	assert.NotNil(t, m.Projects)
	assert.NotNil(t, m.Pipelines)
	assert.Empty(t, m.Projects)
	assert.Empty(t, m.Pipelines)
}

// TestBuild_DuplicatesCollapse verifies duplicate and empty input
// names do not inflate the mapping.
func TestBuild_DuplicatesCollapse(t *testing.T) {
	m, err := Build([]string{"alpha", "alpha", ""}, nil, "")
	require.NoError(t, err)
	assert.Len(t, m.Projects, 1)
}

// TestSeedFor_UnicodeNormalization verifies NFC-equivalent identifiers
// hash identically: composed and decomposed "é" are the same project.
func TestSeedFor_UnicodeNormalization(t *testing.T) {
	composed := "café"
	decomposed := "café"

	s1, err := seedFor(domainProjects, []string{composed}, "")
	require.NoError(t, err)
	s2, err := seedFor(domainProjects, []string{decomposed}, "")
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
}

// TestSeedFor_DomainSeparation verifies the same identifier set seeds
// projects and pipelines differently.
func TestSeedFor_DomainSeparation(t *testing.T) {
	ids := []string{"alpha", "beta"}

	s1, err := seedFor(domainProjects, ids, "")
	require.NoError(t, err)
	s2, err := seedFor(domainPipelines, ids, "")
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
}

// TestPools_NoDuplicates guards the curated lists: a duplicate pool
// entry would silently break injectivity.
func TestPools_NoDuplicates(t *testing.T) {
	for _, pool := range [][]string{projectPool(), pipelinePool()} {
		seen := make(map[string]struct{}, len(pool))
		for _, name := range pool {
			_, dup := seen[name]
			assert.False(t, dup, "duplicate pool entry %q", name)
			seen[name] = struct{}{}
		}
	}
}
