// Package feed builds the RSS 2.0 feed for a document collection.
package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/starford/annal/internal/models"
	"github.com/starford/annal/internal/parser"
)

// SummaryLength is the number of characters of raw contents used as an
// item description.
const SummaryLength = 160

// RSS is the root element of the feed document.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel describes the site.
type Channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Items         []Item `xml:"item"`
}

// Item is one published document.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	GUID        GUID   `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

// GUID is the permalink identifier of an item.
type GUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// New builds the feed for docs in the given order. docs are expected to be
// sorted newest first; the first one dates the channel.
func New(site models.Site, docs []*models.Document) *RSS {
	ch := Channel{
		Title:       site.Title,
		Link:        site.URL,
		Description: site.Description,
		Items:       make([]Item, 0, len(docs)),
	}
	if len(docs) > 0 {
		ch.LastBuildDate = formatDate(docs[0].DateTime)
	}
	for _, d := range docs {
		link := site.URL + d.URL
		ch.Items = append(ch.Items, Item{
			Title:       d.DisplayTitle(),
			Link:        link,
			Description: parser.Summary(d.RawContents, SummaryLength),
			GUID:        GUID{IsPermaLink: true, Value: link},
			PubDate:     formatDate(d.DateTime),
		})
	}
	return &RSS{Version: "2.0", Channel: ch}
}

// Marshal encodes the feed with an XML declaration.
func (r *RSS) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feed: marshal: %w", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}

func formatDate(t time.Time) string {
	return t.Format(time.RFC1123Z)
}
