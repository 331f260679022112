package extractor

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/model"
)

// Website extracts leads by scraping listing pages with CSS selectors
// taken from the source config:
//
//	url                  page to fetch (required)
//	item_selector        selector for one lead per match (required)
//	title_selector       selector within an item (required)
//	description_selector optional
//	link_selector        optional, href is resolved against the page URL
//	date_selector        optional
//	value_selector       optional, parsed as a number after stripping $ and commas
type Website struct {
	client *http.Client
}

func NewWebsite() *Website {
	return &Website{client: newHTTPClient()}
}

func (e *Website) Type() model.SourceType { return model.SourceTypeWebsite }

func (e *Website) Extract(ctx context.Context, source model.DataSource) ([]model.Lead, error) {
	pageURL := source.Config["url"]
	itemSel := source.Config["item_selector"]
	titleSel := source.Config["title_selector"]
	if pageURL == "" || itemSel == "" || titleSel == "" {
		return nil, eris.Errorf("website: source %s needs url, item_selector and title_selector", source.SourceID)
	}

	body, err := fetchBody(ctx, e.client, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(err, "website: parse page from %s", pageURL)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "website: parse page url %s", pageURL)
	}

	var leads []model.Lead
	doc.Find(itemSel).Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find(titleSel).First().Text())
		if title == "" {
			return
		}

		lead := model.NewLead(title, selectionText(item, source.Config["description_selector"]))
		lead.SourceID = source.SourceID
		lead.PublishedDate = parseDate(selectionText(item, source.Config["date_selector"]))
		lead.ProjectValue = parseMoney(selectionText(item, source.Config["value_selector"]))

		if linkSel := source.Config["link_selector"]; linkSel != "" {
			if href, ok := item.Find(linkSel).First().Attr("href"); ok {
				if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
					lead.URL = base.ResolveReference(ref).String()
				}
			}
		}
		leads = append(leads, lead)
	})

	zap.L().Debug("website: extracted",
		zap.String("source_id", source.SourceID),
		zap.Int("leads", len(leads)),
	)
	return leads, nil
}

func selectionText(item *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(item.Find(selector).First().Text())
}

func parseMoney(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
