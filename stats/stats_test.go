package stats

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxplot(t *testing.T) {
	var in strings.Builder
	// Reverse cnt order, so the filter has to sort.
	for i := 24; i >= 0; i-- {
		fmt.Fprintf(&in, "a %d %d\n", i, i)
	}
	in.WriteString("\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&in, "b %d 1.5\n", i)
	}
	for i := 0; i < 26; i++ {
		fmt.Fprintf(&in, "c %d %d\n", i, i)
	}

	var out bytes.Buffer
	require.NoError(t, Boxplot(strings.NewReader(in.String()), &out))
	assert.Equal(t,
		"# b has only 3 values; skip\n"+
			"a 5 0.0 1.0 2.0 3.0 4.0\n"+
			"c 5 0.0 1.0 2.0 3.0 4.0\n"+
			"\n\n\nT\n"+
			"a 5 20.0 21.0 22.0 23.0 24.0\n"+
			"c 6 20.0 21.0 22.0 24.0 25.0\n"+
			"\n",
		out.String())
}

func TestBoxplotMalformed(t *testing.T) {
	err := Boxplot(strings.NewReader("a 1\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInput)
	err = Boxplot(strings.NewReader("a x 1\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInput)
}

func row(gen, run, mu, m string) string {
	return strings.Join([]string{"1000", "10", "50", "-2", "20", "50", "-2", mu, "0", "1", m, gen, run, "Infomap", "NMI", "0.9"}, ", ")
}

func TestSeedFilter(t *testing.T) {
	in := strings.Join([]string{
		row("EM", `"3500000-0-1"`, "0.2", "100"),
		row("Orig", `"3500000-0-1"`, "0.4", "101"),
		row("Orig", `"3500000-1-1"`, "0.2", "102"),
		row("Orig", `"3500000-2-1"`, "0.2", "103"),
		row("Orig", `"3560700-0-1"`, "0.2", "104"),
		row("Orig", `"3500000-0-1"`, "None", "105"),
		row("Orig", "0", "0.2", "106"),
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, SeedFilter(strings.NewReader(in), &out, rand.New(rand.NewSource(1)), SingleSeedCutoffJob))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)

	// Pass-through first, in input order.
	assert.Contains(t, lines[0], ", 100, EM,")
	assert.Contains(t, lines[1], ", 104, Orig,")
	assert.Contains(t, lines[2], ", 106, Orig,")
	// Then one per group, ordered by key: mu 0.2 before mu 0.4.
	assert.True(t, strings.Contains(lines[3], ", 102, ") || strings.Contains(lines[3], ", 103, "), lines[3])
	assert.Contains(t, lines[4], ", 101, ")
}

func TestSeedFilterShortRow(t *testing.T) {
	err := SeedFilter(strings.NewReader("1, 2, 3\n"), &bytes.Buffer{}, rand.New(rand.NewSource(1)), SingleSeedCutoffJob)
	assert.ErrorIs(t, err, ErrInput)
}

func TestConvergenceRate(t *testing.T) {
	in := "1 10 0 0 0 0 100\n" +
		"1 0 0 0 0 0 100\n" +
		"2 1 0 0 0 0 100\n" +
		"3 0 0 0 0 0 100\n"
	var out bytes.Buffer
	require.NoError(t, ConvergenceRate(strings.NewReader(in), &out))
	assert.Equal(t,
		"Found at most 2 data points\n"+
			"1 0.0 0.0 0.0 0.0 0.1\n"+
			"2 0.0 0.0 0.0 0.0 0.01\n"+
			"3 0.0 0.0 0.0 0.0 0.0\n"+
			"# below: 1 1 1 1 3\n",
		out.String())
}

func TestConvergenceRateMalformed(t *testing.T) {
	assert.ErrorIs(t, ConvergenceRate(strings.NewReader(""), &bytes.Buffer{}), ErrInput)
	assert.ErrorIs(t, ConvergenceRate(strings.NewReader("1 2 3\n"), &bytes.Buffer{}), ErrInput)
	assert.ErrorIs(t, ConvergenceRate(strings.NewReader("0 0 0 0 0 0 1\n"), &bytes.Buffer{}), ErrInput)
}

func TestCommunityAssign(t *testing.T) {
	in := "benchmark header\n" +
		"1 3 # free\n" +
		"3 5 # free\n" +
		"1 3 # hitsl\n" +
		"3 5 # hitsl\n" +
		"2 2 # hitsu\n" +
		"2 2 # hitsu\n"
	var out bytes.Buffer
	require.NoError(t, CommunityAssign(strings.NewReader(in), &out))
	assert.Equal(t,
		"1 2.000000 0.333333 0.166667    2.000000 0.333333 0.166667    2.000000 0.500000 0.000000    \n"+
			"2 4.000000 0.666667 0.166667    4.000000 0.666667 0.166667    2.000000 0.500000 0.000000    \n",
		out.String())
}

func TestCommunityAssignFirstTenRows(t *testing.T) {
	var in strings.Builder
	for _, label := range []string{"free", "hitsl", "hitsu"} {
		for i := 0; i < 12; i++ {
			v := 1
			if i >= 10 {
				v = 1000
			}
			fmt.Fprintf(&in, "%d %d # %s\n", v, v, label)
		}
	}
	var out bytes.Buffer
	require.NoError(t, CommunityAssign(strings.NewReader(in.String()), &out))
	assert.True(t, strings.HasPrefix(out.String(), "1 1.000000 0.500000 0.000000    "), out.String())
}

func TestCommunityAssignShapes(t *testing.T) {
	in := "1 2 # free\n1 2 # hitsl\n1 2 # hitsl\n1 2 # hitsu\n"
	assert.ErrorIs(t, CommunityAssign(strings.NewReader(in), &bytes.Buffer{}), ErrInput)
	assert.ErrorIs(t, CommunityAssign(strings.NewReader("1 2 # free\n"), &bytes.Buffer{}), ErrInput)
}
