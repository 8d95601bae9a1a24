package deck

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(n, lines int) string {
	out := []string{fmt.Sprintf("## Slide %d", n)}
	for i := 2; i <= lines; i++ {
		out = append(out, fmt.Sprintf("line %d.%d", n, i))
	}
	return strings.Join(out, "\n")
}

func TestSections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"no marker", "just text", []string{"just text"}},
		{"leading marker", "## Slide 1\na## Slide 2\nb", []string{"## Slide 1\na", "## Slide 2\nb"}},
		{"preamble", "Intro\n## Slide 1\na", []string{"Intro\n", "## Slide 1\na"}},
		{"adjacent", "## Slide## Slide", []string{"## Slide", "## Slide"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sections(tt.in))
		})
	}
}

func TestSplitWithoutMarkers(t *testing.T) {
	in := "\n\n  Title\nline two\n\nline four  \n\n"
	blocks := Split(in, DefaultMaxLines)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Title\nline two\n\nline four\n", blocks[0].String())
	assert.Equal(t, strings.TrimSpace(in), blocks[0].Content())
}

func TestSplitThreeSections(t *testing.T) {
	in := section(1, 4) + "\n\n" + section(2, 10) + "\n" + section(3, 1)
	blocks := Split(in, DefaultMaxLines)
	require.Len(t, blocks, 3)
	for i, b := range blocks {
		assert.Equal(t, fmt.Sprintf("## Slide %d", i+1), b.Lines[0])
	}
	assert.Len(t, blocks[1].Lines, 10)
}

func TestSplitLongSectionSpills(t *testing.T) {
	blocks := Split(section(1, 23), DefaultMaxLines)
	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0].Lines, 10)
	assert.Len(t, blocks[1].Lines, 10)
	assert.Len(t, blocks[2].Lines, 3)
	assert.Equal(t, "## Slide 1", blocks[0].Lines[0])
	assert.Equal(t, "line 1.11", blocks[1].Lines[0])
	assert.Equal(t, "line 1.23", blocks[2].Lines[2])
}

func TestSplitDropsWhitespaceSections(t *testing.T) {
	blocks := Split("## Slide 1\nA\n\n   \n## Slide 2\nB", DefaultMaxLines)
	require.Len(t, blocks, 2)
	assert.Equal(t, "## Slide 1\nA", blocks[0].Content())
	assert.Equal(t, "## Slide 2\nB", blocks[1].Content())

	assert.Empty(t, Split("   \n\t\n", DefaultMaxLines))
}

func TestSplitPreambleBecomesBlock(t *testing.T) {
	blocks := Split("Here is your deck:\n\n## Slide 1\nA", DefaultMaxLines)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Here is your deck:", blocks[0].Content())
}

func TestSplitNonPositiveMaxUsesDefault(t *testing.T) {
	assert.Len(t, Split(section(1, 20), 0), 2)
	assert.Len(t, Split(section(1, 20), 5), 4)
}

func TestBlockTitle(t *testing.T) {
	assert.Equal(t, "Slide 2: Why Go", Block{Lines: []string{"## Slide 2: Why Go", "body"}}.Title())
	assert.Equal(t, "", Block{}.Title())
}

func TestSplitTrimsOnlyControlAndSpace(t *testing.T) {
	assert.Empty(t, Split("\x01\x02 \x1f", DefaultMaxLines))

	nbsp := "\u00a0"
	blocks := Split(nbsp, DefaultMaxLines)
	require.Len(t, blocks, 1)
	assert.Equal(t, nbsp, blocks[0].Content())

	blocks = Split("\x00## Slide 1\nA\x07", DefaultMaxLines)
	require.Len(t, blocks, 1)
	assert.Equal(t, "## Slide 1\nA", blocks[0].Content())
}
