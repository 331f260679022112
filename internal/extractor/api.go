package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/groundsignal/leadradar/internal/model"
)

// API extracts leads from JSON endpoints that return an array of
// objects, either bare or under the key named by items_field. Field
// names are remapped through the source config (title_field,
// description_field, organization_field, location_field, type_field,
// value_field, date_field, url_field, confidence_field); unset mappings
// fall back to the same-named key without the _field suffix.
type API struct {
	client *http.Client
}

func NewAPI() *API {
	return &API{client: newHTTPClient()}
}

func (e *API) Type() model.SourceType { return model.SourceTypeAPI }

func (e *API) Extract(ctx context.Context, source model.DataSource) ([]model.Lead, error) {
	endpoint := source.Config["url"]
	if endpoint == "" {
		return nil, eris.Errorf("api: source %s has no url configured", source.SourceID)
	}

	body, err := fetchBody(ctx, e.client, endpoint)
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(body, source.Config["items_field"])
	if err != nil {
		return nil, eris.Wrapf(err, "api: decode response from %s", endpoint)
	}

	field := func(item map[string]any, name string) string {
		key := source.Config[name+"_field"]
		if key == "" {
			key = name
		}
		if v, ok := item[key]; ok {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}
	number := func(item map[string]any, name string) float64 {
		key := source.Config[name+"_field"]
		if key == "" {
			key = name
		}
		switch v := item[key].(type) {
		case float64:
			return v
		case string:
			return parseMoney(v)
		}
		return 0
	}

	leads := make([]model.Lead, 0, len(items))
	for _, item := range items {
		title := field(item, "title")
		if title == "" {
			continue
		}
		lead := model.NewLead(title, field(item, "description"))
		lead.SourceID = source.SourceID
		lead.Organization = field(item, "organization")
		lead.Location = field(item, "location")
		lead.ProjectType = field(item, "type")
		lead.ProjectValue = number(item, "value")
		lead.URL = field(item, "url")
		lead.PublishedDate = parseDate(field(item, "date"))
		if c := number(item, "confidence"); c > 0 && c <= 1 {
			lead.ConfidenceScore = c
		}
		leads = append(leads, lead)
	}

	zap.L().Debug("api: extracted",
		zap.String("source_id", source.SourceID),
		zap.Int("items", len(items)),
		zap.Int("leads", len(leads)),
	)
	return leads, nil
}

func decodeItems(body []byte, itemsField string) ([]map[string]any, error) {
	var items []map[string]any
	if itemsField == "" {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	raw, ok := wrapper[itemsField]
	if !ok {
		return nil, eris.Errorf("response has no %q key", itemsField)
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
