package extractor

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/model"
)

// RSS extracts leads from RSS 2.0 feeds.
type RSS struct {
	client *http.Client
}

func NewRSS() *RSS {
	return &RSS{client: newHTTPClient()}
}

func (e *RSS) Type() model.SourceType { return model.SourceTypeRSS }

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Category    string `xml:"category"`
}

func (e *RSS) Extract(ctx context.Context, source model.DataSource) ([]model.Lead, error) {
	feedURL := source.Config["url"]
	if feedURL == "" {
		return nil, eris.Errorf("rss: source %s has no url configured", source.SourceID)
	}

	body, err := fetchBody(ctx, e.client, feedURL)
	if err != nil {
		return nil, err
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, eris.Wrapf(err, "rss: parse feed from %s", feedURL)
	}

	leads := make([]model.Lead, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		lead := model.NewLead(title, strings.TrimSpace(item.Description))
		lead.SourceID = source.SourceID
		lead.URL = strings.TrimSpace(item.Link)
		lead.ProjectType = strings.TrimSpace(item.Category)
		lead.PublishedDate = parseDate(item.PubDate)
		leads = append(leads, lead)
	}

	zap.L().Debug("rss: extracted",
		zap.String("source_id", source.SourceID),
		zap.Int("items", len(doc.Channel.Items)),
		zap.Int("leads", len(leads)),
	)
	return leads, nil
}
