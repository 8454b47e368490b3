// Package export serializes scored tweets to files.
package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dialectlab/tweetsift/internal/model"
)

// WriteCSV writes scored tweets to a UTF-8 CSV file at outputPath,
// overwriting any existing file. The header row is always written, even
// for an empty record set. Rows use \n line endings and appear in input
// order.
func WriteCSV(tweets []model.ScoredTweet, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)

	if err := w.Write(model.ScoredFieldNames()); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, t := range tweets {
		row := append(t.Fields(),
			strconv.FormatFloat(t.Polarity, 'g', -1, 64),
			strconv.FormatFloat(t.Subjectivity, 'g', -1, 64),
		)
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "export: close file")
	}

	zap.L().Info("wrote csv", zap.String("path", outputPath), zap.Int("rows", len(tweets)))
	return nil
}
