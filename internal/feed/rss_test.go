package feed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/annal/internal/models"
)

func docs() []*models.Document {
	return []*models.Document{
		{
			Title:       "Hello & Goodbye",
			DateISO:     "2024-03-01",
			RawContents: strings.Repeat("a", 170),
			DateTime:    time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
			URL:         "/2024/03/hello-goodbye.html",
		},
		{
			Title:       "",
			DateISO:     "2023-07-04",
			RawContents: "short <b>raw</b>",
			DateTime:    time.Date(2023, 7, 4, 10, 0, 0, 0, time.UTC),
			URL:         "/2023/07/2023-07-04.html",
		},
	}
}

var site = models.Site{Title: "My Archive", URL: "https://example.com", Description: "Notes"}

func TestNew_Items(t *testing.T) {
	rss := New(site, docs())
	require.Len(t, rss.Channel.Items, 2)

	first := rss.Channel.Items[0]
	assert.Equal(t, "Hello & Goodbye", first.Title)
	assert.Equal(t, "https://example.com/2024/03/hello-goodbye.html", first.Link)
	assert.Equal(t, first.Link, first.GUID.Value)
	assert.True(t, first.GUID.IsPermaLink)
	assert.Equal(t, strings.Repeat("a", 160)+"...", first.Description)
	assert.Equal(t, "Fri, 01 Mar 2024 14:30:00 +0000", first.PubDate)

	second := rss.Channel.Items[1]
	assert.Equal(t, "2023-07-04", second.Title)
	assert.Equal(t, "short <b>raw</b>", second.Description)

	assert.Equal(t, first.PubDate, rss.Channel.LastBuildDate)
}

func TestMarshal_ParsesAsRSS(t *testing.T) {
	out, err := New(site, docs()).Marshal()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("<?xml")))
	assert.Contains(t, string(out), `<guid isPermaLink="true">https://example.com/2024/03/hello-goodbye.html</guid>`)

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "rss", parsed.FeedType)
	assert.Equal(t, "My Archive", parsed.Title)
	assert.Equal(t, "Notes", parsed.Description)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "Hello & Goodbye", parsed.Items[0].Title)
	assert.Equal(t, "https://example.com/2024/03/hello-goodbye.html", parsed.Items[0].GUID)
	require.NotNil(t, parsed.Items[0].PublishedParsed)
	assert.True(t, parsed.Items[0].PublishedParsed.Equal(time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)))
}

func TestNew_Empty(t *testing.T) {
	rss := New(site, nil)
	assert.Empty(t, rss.Channel.Items)
	assert.Equal(t, "", rss.Channel.LastBuildDate)

	out, err := rss.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "lastBuildDate")
}
