package insights

import (
	"bytes"
	"encoding/csv"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type SummaryRenderer interface {
	RenderSummary(summary PeriodSummary) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// RenderSummary writes one row per bucket followed by the Total, Average and Max rows. Future
// buckets are kept with an empty amount.
func (c *CsvRendererImpl) RenderSummary(summary PeriodSummary) (string, error) {
	layout := bucketLayout(summary.Window.BucketUnit())

	data := make([][]string, 0, len(summary.Buckets)+4)
	data = append(data, []string{"Date", "Amount"})
	for _, bucket := range summary.Buckets {
		amount := ""
		if bucket.Elapsed {
			amount = money(bucket.Amount)
		}
		data = append(data, []string{bucket.Date.Format(layout), amount})
	}
	data = append(data, []string{"Total", money(summary.Total)})
	average := ""
	if summary.AverageMeaningful() {
		average = money(summary.Average)
	}
	data = append(data, []string{"Average", average})
	data = append(data, []string{"Max", money(summary.Max)})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

func bucketLayout(unit period.Type) string {
	if unit == period.Month {
		return "2006-01"
	}
	return "2006-01-02"
}

func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
