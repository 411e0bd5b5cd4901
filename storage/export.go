package storage

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"recipe-giving/types"
)

// DonationSheet is the worksheet name used by the export
const DonationSheet = "Donations"

var donationHeader = []interface{}{
	"id", "timestamp", "recipe_id", "project_id", "amount", "currency", "country_code", "visitor_id", "checkout_url",
}

// WriteDonationsXLSX writes donations as a spreadsheet, one row per record after the header
func WriteDonationsXLSX(w io.Writer, donations []types.Donation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DonationSheet); err != nil {
		return errors.Wrap(err, "failed to name sheet")
	}

	sw, err := f.NewStreamWriter(DonationSheet)
	if err != nil {
		return errors.Wrap(err, "failed to open stream writer")
	}
	if err := sw.SetRow("A1", donationHeader); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	for i, d := range donations {
		row := []interface{}{
			d.ID,
			d.Timestamp.UTC().Format(time.RFC3339),
			d.RecipeID,
			d.ProjectID,
			d.Amount,
			d.Currency,
			d.CountryCode,
			d.VisitorID,
			d.CheckoutURL,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush sheet")
	}
	_, err = f.WriteTo(w)
	return errors.Wrap(err, "failed to write workbook")
}
