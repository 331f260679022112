package extractor

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/model"
	"github.com/groundsignal/leadradar/pkg/legaldocs"
)

// LegalFeed extracts leads from legal-notice aggregators. Source config:
//
//	keywords      search terms (required)
//	jurisdiction  optional filter
//	lookback_days how far back to search, default 30
type LegalFeed struct {
	notices legaldocs.Client
}

func NewLegalFeed(notices legaldocs.Client) *LegalFeed {
	return &LegalFeed{notices: notices}
}

func (e *LegalFeed) Type() model.SourceType { return model.SourceTypeLegalFeed }

func (e *LegalFeed) Extract(ctx context.Context, source model.DataSource) ([]model.Lead, error) {
	keywords := source.Config["keywords"]
	if keywords == "" {
		return nil, eris.Errorf("legalfeed: source %s has no keywords configured", source.SourceID)
	}

	lookback := 30 * 24 * time.Hour
	if raw := source.Config["lookback_days"]; raw != "" {
		if days, err := strconv.Atoi(raw); err == nil && days > 0 {
			lookback = time.Duration(days) * 24 * time.Hour
		}
	}

	results, err := e.notices.FetchNotices(ctx, legaldocs.Query{
		Keywords:     keywords,
		Jurisdiction: source.Config["jurisdiction"],
		Since:        time.Now().UTC().Add(-lookback),
	})
	if err != nil {
		return nil, eris.Wrapf(err, "legalfeed: fetch notices for %s", source.SourceID)
	}

	leads := make([]model.Lead, 0, len(results))
	for _, n := range results {
		title := strings.TrimSpace(n.Title)
		if title == "" {
			continue
		}
		lead := model.NewLead(title, strings.TrimSpace(n.Body))
		lead.SourceID = source.SourceID
		lead.Location = n.Jurisdiction
		lead.ProjectType = n.Category
		lead.URL = n.URL
		lead.PublishedDate = n.PublishedDate
		leads = append(leads, lead)
	}

	zap.L().Debug("legalfeed: extracted",
		zap.String("source_id", source.SourceID),
		zap.Int("notices", len(results)),
		zap.Int("leads", len(leads)),
	)
	return leads, nil
}
