package requirements

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOnEmptyParenthesisMarkers(t *testing.T) {
	got := Split("Submit plan () Attach schedule () File budget")
	assert.Equal(t, []string{"Submit plan", "Attach schedule", "File budget"}, got)
}

func TestSplitMarkersWithInnerWhitespaceAndLeadingMarker(t *testing.T) {
	got := Split("()  Prepare   minutes (  )Publish\tnotice ()")
	assert.Equal(t, []string{"Prepare minutes", "Publish notice"}, got)
}

func TestSplitEmptyInput(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("   \n\t "))
	assert.NotNil(t, Split(""))
}

func TestSplitShortUnmarkedTextIsSingleFragment(t *testing.T) {
	in := "  Keep   attendance records; up to date  "
	got := Split(in)
	require.Len(t, got, 1)
	assert.Equal(t, "Keep attendance records; up to date", got[0])
}

func TestSplitLongProseFallsBackToPunctuation(t *testing.T) {
	in := "The school prepares an annual improvement plan with measurable targets; " +
		"teachers review lesson outcomes each term - the committee publishes results • ok"
	got := Split(in)
	assert.Equal(t, []string{
		"The school prepares an annual improvement plan with measurable targets",
		"teachers review lesson outcomes each term",
		"the committee publishes results",
	}, got)
}

func TestSplitKhmerFullStop(t *testing.T) {
	in := strings.Repeat("សាលារៀនមានផែនការ", 3) + "។" + strings.Repeat("គ្រូបង្រៀនរៀបចំមេរៀន", 3) + "។ ក"
	got := Split(in)
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "សាលារៀន"))
	assert.True(t, strings.HasPrefix(got[1], "គ្រូ"))
}

func TestSplitLongTextWithoutSeparatorsStaysWhole(t *testing.T) {
	in := strings.Repeat("word ", 30)
	got := Split(in)
	require.Len(t, got, 1)
	assert.Equal(t, Normalize(in), got[0])
}

func TestSplitCapsFragments(t *testing.T) {
	parts := make([]string, 0, 75)
	for i := 0; i < 75; i++ {
		parts = append(parts, fmt.Sprintf("item %d", i))
	}
	got := Split(strings.Join(parts, " () "))
	require.Len(t, got, MaxItems)
	assert.Equal(t, "item 0", got[0])
	assert.Equal(t, "item 59", got[MaxItems-1])
}

func TestSplitMarkedInputNeverYieldsEmptyFragments(t *testing.T) {
	inputs := []string{
		"a () b",
		"() () x () () y ()",
		"alpha ( ) beta ( ) gamma",
	}
	for _, in := range inputs {
		got := Split(in)
		assert.GreaterOrEqual(t, len(got), 2, in)
		for _, fragment := range got {
			assert.NotEmpty(t, fragment, in)
		}
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("  Submit   Plan "), Key("submit plan"))
}
