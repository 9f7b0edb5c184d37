package ingest

import (
	"encoding/json"
	"io"

	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

func decodeJSON(r io.Reader) Trades {
	return func(yield func(models.CanonicalTrade, error) bool) {
		src := &readRecorder{r: r}
		var trades []models.CanonicalTrade
		if err := json.NewDecoder(src).Decode(&trades); err != nil {
			yield(models.CanonicalTrade{}, src.classify(err))
			return
		}
		for _, t := range trades {
			if !yield(t, nil) {
				return
			}
		}
	}
}
