// package formatter renders enrichment reports and status snapshots for
// terminal display and exports them as JSON or CSV audit artifacts.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/shared"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// WriteReportJSON writes the full report (summary and per-video details) as
// indented JSON to the given path.
func WriteReportJSON(report *models.EnrichmentReport, path string) error {
	data, err := shared.MarshalJSON(report, true)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ExportReportCSV converts the report's per-video details to CSV with columns:
// VideoID, Status, OldTitle, NewTitle, Error.
func ExportReportCSV(report *models.EnrichmentReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"VideoID", "Status", "OldTitle", "NewTitle", "Error"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, detail := range report.Details {
		record := []string{detail.VideoID, detail.Status, detail.OldTitle, detail.NewTitle, detail.Error}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderReport renders a styled terminal summary of an enrichment run.
func RenderReport(report *models.EnrichmentReport) string {
	var b strings.Builder

	header := fmt.Sprintf("Enrichment run (%s priority)", report.Priority)
	if report.DryRun {
		header += " (dry run)"
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(report.Timestamp.Format(time.RFC3339)))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"Processed", strconv.Itoa(report.Summary.VideosProcessed), okStyle},
		{"Updated", strconv.Itoa(report.Summary.VideosUpdated), okStyle},
		{"Deleted", strconv.Itoa(report.Summary.VideosDeleted), warnStyle},
		{"Channels created", strconv.Itoa(report.Summary.ChannelsCreated), okStyle},
		{"Errors", strconv.Itoa(report.Summary.Errors), errStyle},
		{"Quota used", strconv.Itoa(report.Summary.QuotaUsed), warnStyle},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-18s %s\n", labelStyle.Render(row.label), row.style.Render(row.value)))
	}

	if report.Summary.Errors > 0 {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("Failed videos:"))
		b.WriteString("\n")
		for _, detail := range report.Details {
			if detail.Status == models.OutcomeError {
				b.WriteString(fmt.Sprintf("  %s: %s\n", detail.VideoID, detail.Error))
			}
		}
	}

	return b.String()
}

// RenderStatus renders a styled tier-count table with the enrichment
// percentage.
func RenderStatus(status *models.Status) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Archive enrichment status"))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		count int
	}{
		{"High (placeholder title + channel)", status.Tiers.High},
		{"Medium (placeholder title)", status.Tiers.Medium},
		{"Low (partially enriched)", status.Tiers.Low},
		{"All (incl. deleted)", status.Tiers.All},
		{"Deleted", status.Tiers.Deleted},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-36s %s\n", labelStyle.Render(row.label), strconv.Itoa(row.count)))
	}

	b.WriteString("\n")
	pct := fmt.Sprintf("%.1f%% enriched", status.Percentage)
	if status.Percentage >= 90 {
		b.WriteString(okStyle.Render(pct))
	} else {
		b.WriteString(warnStyle.Render(pct))
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf(" (%d videos total)", status.Total)))
	b.WriteString("\n")

	return b.String()
}
