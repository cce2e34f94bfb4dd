package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/bizlink/directory-backend/internal/adapters/spreadsheet"
	"github.com/bizlink/directory-backend/internal/domain/entities"
	"github.com/bizlink/directory-backend/internal/domain/repositories"
	"github.com/bizlink/directory-backend/internal/infrastructure/observability"
	"github.com/bizlink/directory-backend/internal/validation"
	apperrors "github.com/bizlink/directory-backend/pkg/errors"
)

const defaultCountryCode = "+91"

// ImportReport summarizes one bulk-import run. When Errors is non-empty the
// batch was rejected before any write.
type ImportReport struct {
	TotalRows    int      `json:"totalRows"`
	ValidRecords int      `json:"validRecords"`
	Created      int      `json:"created"`
	Failed       int      `json:"failed"`
	Errors       []string `json:"errors,omitempty"`
}

// ImportService turns an uploaded workbook into business listings. Validation
// is all-or-nothing: a single bad or duplicate row blocks the whole batch.
// Accepted records are then created concurrently and independently, so a
// failed write does not roll back its siblings.
type ImportService struct {
	businesses *BusinessService
	repo       repositories.BusinessRepository
	metrics    *observability.Metrics
}

func NewImportService(businesses *BusinessService, repo repositories.BusinessRepository, metrics *observability.Metrics) *ImportService {
	return &ImportService{businesses: businesses, repo: repo, metrics: metrics}
}

type parsedRecord struct {
	row      spreadsheet.Row
	business *entities.Business
}

// Import parses, validates and creates the businesses in an .xlsx upload.
// The returned report carries either the accumulated row errors or the
// settled create counts; the error return is reserved for unreadable files
// and directory lookups.
func (s *ImportService) Import(ctx context.Context, file io.Reader, identity entities.UserIdentity) (*ImportReport, error) {
	rows, err := spreadsheet.Parse(file)
	if err != nil {
		return nil, apperrors.NewValidationError("failed to process Excel file")
	}

	report := &ImportReport{TotalRows: len(rows)}

	var records []parsedRecord
	for _, row := range rows {
		business := reshapeRow(row)
		for _, fieldErr := range validation.ValidateBusiness(business) {
			report.Errors = append(report.Errors, fmt.Sprintf("Row %d: %s", rowNumber(row), fieldErr.Error()))
		}
		records = append(records, parsedRecord{row: row, business: business})
	}

	if len(report.Errors) > 0 {
		observability.RecordImportRows(ctx, s.metrics, "invalid", len(report.Errors))
		return report, nil
	}

	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if msg, dup := findDuplicate(record.business, existing); dup {
			report.Errors = append(report.Errors, fmt.Sprintf("Row %d: %s", rowNumber(record.row), msg))
		}
	}
	if len(report.Errors) > 0 {
		observability.RecordImportRows(ctx, s.metrics, "duplicate", len(report.Errors))
		return report, nil
	}

	report.ValidRecords = len(records)
	observability.RecordImportRows(ctx, s.metrics, "valid", len(records))

	// Settle all creates before reporting; no rollback on partial failure.
	var created, failed atomic.Int64
	var wg sync.WaitGroup
	for _, record := range records {
		wg.Add(1)
		go func(record parsedRecord) {
			defer wg.Done()
			if _, err := s.businesses.Create(ctx, record.business, identity); err != nil {
				failed.Add(1)
				log.Ctx(ctx).Error().Err(err).
					Int("row", rowNumber(record.row)).
					Str("name", record.business.Name).
					Msg("bulk import create failed")
				return
			}
			created.Add(1)
		}(record)
	}
	wg.Wait()

	report.Created = int(created.Load())
	report.Failed = int(failed.Load())
	observability.RecordImportRows(ctx, s.metrics, "created", report.Created)
	observability.RecordImportRows(ctx, s.metrics, "failed", report.Failed)

	log.Ctx(ctx).Info().
		Int("total_rows", report.TotalRows).
		Int("created", report.Created).
		Int("failed", report.Failed).
		Msg("bulk import settled")

	return report, nil
}

// SampleWorkbook writes the downloadable example .xlsx to w.
func (s *ImportService) SampleWorkbook(w io.Writer) error {
	return spreadsheet.WriteSample(w)
}

func rowNumber(row spreadsheet.Row) int {
	// +2 accounts for 1-based rows and the header row
	return row.Index + 2
}

// reshapeRow converts one flattened workbook row into a business entity.
// Address groups are scanned from suffix "" (group 1) upward and must be
// contiguous: the scan stops at the first group whose addressLine1 is absent.
func reshapeRow(row spreadsheet.Row) *entities.Business {
	business := &entities.Business{
		Name:         row.Get("name"),
		Brief:        row.Get("brief"),
		Description:  row.Get("description"),
		ProfilePhoto: row.Get("profilePhoto"),
		Categories:   splitCategories(row.Get("categories")),
	}

	for n := 1; ; n++ {
		suffix := ""
		if n > 1 {
			suffix = fmt.Sprintf("_%d", n)
		}
		if row.Get("addressLine1"+suffix) == "" {
			break
		}

		address := entities.Address{
			City: row.Get("city" + suffix),
			Link: row.Get("mapLink" + suffix),
		}
		for _, line := range []string{row.Get("addressLine1" + suffix), row.Get("addressLine2" + suffix)} {
			if line != "" {
				address.Lines = append(address.Lines, line)
			}
		}
		for slot := 1; slot <= 2; slot++ {
			number := row.Get(fmt.Sprintf("phoneNumber%d%s", slot, suffix))
			if number == "" {
				continue
			}
			countryCode := row.Get(fmt.Sprintf("phoneCountryCode%d%s", slot, suffix))
			if countryCode == "" {
				countryCode = defaultCountryCode
			}
			address.PhoneNumbers = append(address.PhoneNumbers, entities.PhoneNumber{
				Number:      number,
				CountryCode: countryCode,
				HasWhatsapp: strings.EqualFold(row.Get(fmt.Sprintf("phoneWhatsapp%d%s", slot, suffix)), "true"),
			})
		}
		for slot := 1; slot <= 2; slot++ {
			if email := row.Get(fmt.Sprintf("email%d%s", slot, suffix)); email != "" {
				address.Emails = append(address.Emails, email)
			}
		}
		business.Addresses = append(business.Addresses, address)
	}

	return business
}

func splitCategories(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var categories []string
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			categories = append(categories, token)
		}
	}
	return categories
}

// findDuplicate reports whether candidate collides with an existing listing.
// A collision requires equal names (case-insensitive) plus one address pair
// agreeing on city, on at least one exact phone number, and on at least one
// email (case-insensitive). All three must hold.
func findDuplicate(candidate *entities.Business, existing []*entities.Business) (string, bool) {
	for _, business := range existing {
		if !strings.EqualFold(candidate.Name, business.Name) {
			continue
		}
		for _, have := range business.Addresses {
			for _, want := range candidate.Addresses {
				if !strings.EqualFold(want.City, have.City) {
					continue
				}
				phone, phoneOK := matchingPhone(want.PhoneNumbers, have.PhoneNumbers)
				email, emailOK := matchingEmail(want.Emails, have.Emails)
				if phoneOK && emailOK {
					return fmt.Sprintf("duplicate of existing business %q (matching phone %s, email %s)",
						business.Name, phone, email), true
				}
			}
		}
	}
	return "", false
}

func matchingPhone(a, b []entities.PhoneNumber) (string, bool) {
	for _, pa := range a {
		for _, pb := range b {
			if pa.Number == pb.Number {
				return pa.Number, true
			}
		}
	}
	return "", false
}

func matchingEmail(a, b []string) (string, bool) {
	for _, ea := range a {
		for _, eb := range b {
			if strings.EqualFold(ea, eb) {
				return ea, true
			}
		}
	}
	return "", false
}
