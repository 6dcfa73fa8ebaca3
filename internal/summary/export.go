package summary

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteSummaryCSV serialises the per-zone totals and overall figures to CSV,
// with rupee amounts grouped the way the committee reads them.
func WriteSummaryCSV(w io.Writer, zones []ZoneTotals, overall Overall) error {
	p := message.NewPrinter(language.English)
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Zone", "Total Received", "Total Due"}); err != nil {
		return err
	}
	for _, zt := range zones {
		if err := writer.Write([]string{
			string(zt.Zone),
			p.Sprintf("₹%.2f", zt.Received.InexactFloat64()),
			p.Sprintf("₹%.2f", zt.Due.InexactFloat64()),
		}); err != nil {
			return err
		}
	}

	records := [][]string{
		{"Grand Total Received", p.Sprintf("₹%.2f", overall.Received.InexactFloat64()), ""},
		{"Total Debited", p.Sprintf("₹%d", overall.Debited), ""},
		{"Cash in Hand", p.Sprintf("₹%.2f", overall.CashInHand.InexactFloat64()), ""},
		{"Total Dues All Zones", p.Sprintf("₹%.2f", overall.Due.InexactFloat64()), ""},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
