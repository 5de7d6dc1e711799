package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/network/networktest"
)

// fixture: X and Y are cited by c1..c3; X additionally by c4.
// r1, r2 are references shared by X and Z.
func fixture() *network.Graph {
	return networktest.New().
		Papers("X", "Y", "Z", "c1", "c2", "c3", "c4", "r1", "r2", "r3").
		Cite("c1", "X").Cite("c2", "X").Cite("c3", "X").Cite("c4", "X").
		Cite("c1", "Y").Cite("c2", "Y").Cite("c3", "Y").
		Cite("X", "r1").Cite("X", "r2").
		Cite("Z", "r1").Cite("Z", "r2").Cite("Z", "r3").
		Graph()
}

func TestCoCitation(t *testing.T) {
	g := fixture()
	m := CoCitation(g, "X", "Y")
	assert.Equal(t, 3, m.Shared)
	// Y's citing set is a strict subset of X's.
	assert.InDelta(t, 1.0, m.Strength, 1e-12)
	assert.InDelta(t, 0.75, m.Jaccard, 1e-12)
}

func TestCoupling(t *testing.T) {
	g := fixture()
	m := Coupling(g, "X", "Z")
	assert.Equal(t, 2, m.Shared)
	assert.InDelta(t, 1.0, m.Strength, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.Jaccard, 1e-12)
}

func TestSymmetry(t *testing.T) {
	g := fixture()
	ids := g.NodeIDs()
	for _, a := range ids {
		for _, b := range ids {
			assert.Equal(t, CoCitation(g, a, b), CoCitation(g, b, a), "%s/%s", a, b)
			assert.Equal(t, Coupling(g, a, b), Coupling(g, b, a), "%s/%s", a, b)
			assert.InDelta(t, Combined(g, a, b), Combined(g, b, a), 1e-12)
		}
	}
}

func TestNoOverlap(t *testing.T) {
	g := fixture()
	assert.Equal(t, Measure{}, CoCitation(g, "X", "Z"))
	assert.Equal(t, Measure{}, Coupling(g, "Y", "missing"))
}

func TestCombined(t *testing.T) {
	g := fixture()
	assert.InDelta(t, 0.6, Combined(g, "X", "Y"), 1e-12)
	assert.InDelta(t, 0.4, Combined(g, "X", "Z"), 1e-12)
}

func TestFindSimilarByCoCitation(t *testing.T) {
	g := fixture()
	matches := FindSimilarByCoCitation(g, "X", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "Y", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-12)
}

func TestFindSimilarByCoupling(t *testing.T) {
	g := fixture()
	matches := FindSimilarByCoupling(g, "X", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "Z", matches[0].ID)
}

func TestFindRelated(t *testing.T) {
	g := fixture()
	matches := FindRelated(g, "X", 0)
	require.Len(t, matches, 2)
	assert.Equal(t, "Y", matches[0].ID)
	assert.Equal(t, "Z", matches[1].ID)

	limited := FindRelated(g, "X", 1)
	assert.Len(t, limited, 1)
}

func TestFindRelated_UnknownPaper(t *testing.T) {
	g := fixture()
	assert.Empty(t, FindRelated(g, "missing", 5))
}
