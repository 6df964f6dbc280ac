package output

import (
	"encoding/json"

	"github.com/rpgo/rsim/internal/domain"
)

// JSONFormatter renders summaries as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(summaries []domain.Summary) ([]byte, error) {
	return json.MarshalIndent(summaries, "", "  ")
}
