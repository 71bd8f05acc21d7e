// Package export writes the registration queue to an .xlsx workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	"github.com/caterbazar/caterbazar-console/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName       = "Registrations"
	ContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultPageSize = 100
	maxPages        = 200
)

var headers = []string{
	"ID", "Brand Name", "Business Email", "Business Mobile", "Location", "Vendor Category",
	"Refer ID", "Status", "Rejection Reason", "Admin Notes", "Submitted At", "Reviewed At",
}

// RegistrationSource pages through registrations.
type RegistrationSource interface {
	ListRegistrations(ctx context.Context, token string, q caterbazar.RegistrationListQuery) (*caterbazar.RegistrationList, error)
}

// Collect fetches every page matching q, up to maxPages pages. Page and limit
// in q are ignored.
func Collect(ctx context.Context, src RegistrationSource, token string, q caterbazar.RegistrationListQuery) ([]model.BusinessRegistration, error) {
	q.Limit = defaultPageSize
	var all []model.BusinessRegistration

	for page := 1; page <= maxPages; page++ {
		q.Page = page
		list, err := src.ListRegistrations(ctx, token, q)
		if err != nil {
			return nil, err
		}
		all = append(all, list.Registrations...)

		if len(list.Registrations) == 0 || page >= list.Pagination.Pages {
			break
		}
		if page == maxPages {
			logger.Warn("Registration export truncated at page limit", map[string]interface{}{
				"pages_fetched": maxPages,
				"pages_total":   list.Pagination.Pages,
				"rows_exported": len(all),
				"rows_total":    list.Pagination.Total,
				"status":        string(q.Status),
			})
		}
	}
	return all, nil
}

// WriteRegistrations renders regs as a single-sheet workbook.
func WriteRegistrations(w io.Writer, regs []model.BusinessRegistration) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range regs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.ID, r.BrandName, r.BusinessEmail, r.BusinessMobile, r.Location, string(r.VendorCategory),
			r.ReferID, string(r.Status), r.RejectionReason, r.AdminNotes,
			formatTime(r.SubmittedAt), formatTime(r.ReviewedAt),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Filename is the suggested download name for an export taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("registrations-%s.xlsx", t.Format("20060102-150405"))
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
