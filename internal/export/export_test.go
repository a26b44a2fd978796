// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/frontier-pulse/pkg/types"
)

func TestRedact(t *testing.T) {
	in := "log at /Users/alex/pulse.log"
	assert.Equal(t, "log at ~/alex/pulse.log", Redact(in, true))
	assert.Equal(t, in, Redact(in, false))
}

func TestTwitterThread_FitsLimitWithPrefix(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString(strings.Repeat("finding ", 20))
		b.WriteString("\n")
	}
	thread := TwitterThread(b.String())
	tweets := strings.Split(thread, "\n\n")
	require.NotEmpty(t, tweets)
	assert.LessOrEqual(t, len(tweets), 10)
	for _, tw := range tweets {
		assert.LessOrEqual(t, len(tw), 260, "tweet with prefix must fit the limit: %q", tw)
	}
}

func TestTwitterThread_Numbering(t *testing.T) {
	thread := TwitterThread("short brief")
	assert.Equal(t, "1/1 short brief", thread)

	long := strings.Repeat("alpha beta gamma delta epsilon zeta eta theta\n", 20)
	multi := TwitterThread(long)
	tweets := strings.Split(multi, "\n\n")
	require.Greater(t, len(tweets), 1)
	for i, tw := range tweets {
		assert.True(t, strings.HasPrefix(tw, fmt.Sprintf("%d/%d ", i+1, len(tweets))), "tweet %d: %q", i, tw)
	}
}

func TestTwitterThread_SkipsBlankLines(t *testing.T) {
	thread := TwitterThread("# Heading\n\n\n- point one\n\n- point two\n")
	assert.Equal(t, "1/1 # Heading - point one - point two", thread)
}

func TestTwitterThread_TruncatesLongLines(t *testing.T) {
	thread := TwitterThread(strings.Repeat("x", 1000))
	tweets := strings.Split(thread, "\n\n")
	require.Len(t, tweets, 1)
	assert.LessOrEqual(t, len(tweets[0]), 260)
}

func TestLinkedIn(t *testing.T) {
	post := LinkedIn("# Brief body")
	assert.True(t, strings.HasPrefix(post, "Building frontier-pulse in public: this week's frontier AI research signal.\n\n"))
	assert.Contains(t, post, "# Brief body")

	long := LinkedIn(strings.Repeat("y", 5000))
	// Intro plus separator plus the capped body.
	assert.Len(t, long, len("Building frontier-pulse in public: this week's frontier AI research signal.")+2+2800)
}

func TestBuild(t *testing.T) {
	project := types.ProjectConfig{RedactExportPaths: true}
	md := "brief at /Users/alex"

	assert.Equal(t, "1/1 brief at ~/alex", Build(md, PlatformTwitter, project))
	assert.Contains(t, Build(md, PlatformLinkedIn, project), "brief at ~/alex")
	assert.Equal(t, "brief at ~/alex", Build(md, PlatformMarkdown, project))
	assert.Equal(t, "brief at ~/alex", Build(md, "unknown", project))
}

func TestChecklist(t *testing.T) {
	items := Checklist("## Strategic Flags\n- Citation provenance is enabled.")
	require.Len(t, items, 4)
	assert.Equal(t, "citations", items[0].ID)
	assert.True(t, items[0].Passed)
	assert.False(t, items[1].Passed)

	none := Checklist("no provenance wording here")
	assert.False(t, none[0].Passed)
}
