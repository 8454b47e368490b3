package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dialectlab/tweetsift/internal/model"
)

// WriteJSON writes scored tweets as an indented JSON array at
// outputPath, overwriting any existing file. An empty record set
// produces an empty array, not null.
func WriteJSON(tweets []model.ScoredTweet, outputPath string) error {
	if tweets == nil {
		tweets = []model.ScoredTweet{}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tweets); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "export: close file")
	}

	zap.L().Info("wrote json", zap.String("path", outputPath), zap.Int("rows", len(tweets)))
	return nil
}
