package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/icewatch/x-monitor/internal/domain"
	"github.com/icewatch/x-monitor/internal/repositories/account"
	"github.com/icewatch/x-monitor/pkg/logger"
)

// Importer bulk-upserts monitored accounts from a CSV export. Rows are keyed
// on (platform, lower(handle)); re-running the import is safe.
type Importer struct {
	accountRepo account.Repository
	logger      logger.Logger
}

type Result struct {
	Created int
	Updated int
	Skipped int
}

func New(accountRepo account.Repository, logger logger.Logger) *Importer {
	return &Importer{
		accountRepo: accountRepo,
		logger:      logger.WithComponent("AccountImporter"),
	}
}

// ImportCSV reads a header-keyed CSV (platform, handle, display_name,
// category, role, is_enabled, verification_url, notes) and upserts each row.
// Rows without a platform or handle are skipped, not fatal.
func (i *Importer) ImportCSV(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for idx, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = idx
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var result Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to read CSV record: %w", err)
		}

		platform := strings.ToLower(field(record, "platform"))
		handle := strings.TrimPrefix(field(record, "handle"), "@")
		if platform == "" || handle == "" {
			result.Skipped++
			continue
		}

		acc := domain.Account{
			Platform:        platform,
			Handle:          handle,
			DisplayName:     field(record, "display_name"),
			Category:        domain.ParseCategory(field(record, "category")),
			Role:            field(record, "role"),
			IsEnabled:       parseBoolish(field(record, "is_enabled"), true),
			VerificationURL: field(record, "verification_url"),
			Notes:           field(record, "notes"),
		}

		created, err := i.accountRepo.Upsert(ctx, acc)
		if err != nil {
			return result, fmt.Errorf("failed to upsert account %s/%s: %w", platform, handle, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	i.logger.Info("Accounts imported",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}

// parseBoolish interprets the boolean spellings that show up in hand-edited
// CSVs. Unrecognized or empty values fall back to def rather than silently
// disabling an account.
func parseBoolish(value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return def
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
