package huffman

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTree_ScenarioA(t *testing.T) {
	tree, err := BuildTree(CountFrequencies("aaab"))
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	expectDump := strings.Join([]string{
		"Tree{\n",
		"\t*: 4\n",
		"\t\t*: 1\n",
		"\t\t\tEOS: 0\n",
		"\t\t\t'b': 1\n",
		"\t\t'a': 3\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = tree.Dump(&buf)
	actualDump := buf.String()
	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}

	if expect, actual := 5, tree.Len(); expect != actual {
		t.Errorf("wrong node count: expect %d, actual %d", expect, actual)
	}
	if expect, actual := 3, tree.NumLeaves(); expect != actual {
		t.Errorf("wrong leaf count: expect %d, actual %d", expect, actual)
	}
}

func TestBuildTree_Empty(t *testing.T) {
	_, err := BuildTree(FrequencyTable{})
	require.True(t, errors.Is(err, ErrEmptyFrequencyTable))
}

func TestBuildTree_SingleLeaf(t *testing.T) {
	tree, err := BuildTree(CountFrequencies(""))
	require.NoError(t, err)
	require.Equal(t, 1, tree.Len())
	require.True(t, tree.IsLeaf(tree.Root()))

	child, ok := tree.Child(tree.Root(), false)
	require.True(t, ok)
	require.Equal(t, tree.Root(), child)

	_, ok = tree.Child(tree.Root(), true)
	require.False(t, ok)
}

func TestBuildTree_TieBreak(t *testing.T) {
	// All counts equal: leaves merge pairwise in insertion order, then the
	// internal nodes merge in creation order.
	var ft FrequencyTable
	for _, ch := range "wxyz" {
		ft.Add(Symbol(ch), 1)
	}
	table := makeTestTable(t, ft)

	expect := map[Symbol]string{'w': "00", 'x': "01", 'y': "10", 'z': "11"}
	for sym, code := range expect {
		hc, found := table.Lookup(sym)
		require.True(t, found)
		require.Equal(t, `"`+code+`"`, hc.String(), "symbol %s", sym)
	}
}

func TestBuildTree_FrequencyConservation(t *testing.T) {
	for _, text := range testTexts {
		ft := CountFrequencies(text)
		tree, err := BuildTree(ft)
		require.NoError(t, err)

		var leafSum uint64
		leaves := make(map[Symbol]bool)
		for i := 0; i < tree.Len(); i++ {
			n := tree.Node(int32(i))
			if n.IsLeaf() {
				require.False(t, leaves[n.Symbol], "duplicate leaf %s", n.Symbol)
				leaves[n.Symbol] = true
				require.Equal(t, ft.Count(n.Symbol), n.Freq)
				leafSum += n.Freq
				continue
			}
			require.Equal(t, tree.Node(n.Left).Freq+tree.Node(n.Right).Freq, n.Freq)
		}
		require.Equal(t, ft.Len(), len(leaves))
		require.Equal(t, leafSum, tree.Node(tree.Root()).Freq)
		require.Equal(t, ft.Total(), leafSum)
	}
}

func TestBuildTree_Deterministic(t *testing.T) {
	for _, text := range testTexts {
		ft := CountFrequencies(text)

		var dumps [2]strings.Builder
		for i := range dumps {
			table := makeTestTable(t, ft)
			_, _ = table.Dump(&dumps[i])
		}
		require.Equal(t, dumps[0].String(), dumps[1].String())
	}
}
