package service

import (
	"fmt"
	"regexp"
	"strings"

	"ean-extractor/internal/models"
)

var (
	codePattern  = regexp.MustCompile(`^\d+$`)
	valuePattern = regexp.MustCompile(`^\d+\.\d{2}$`)
)

// ParseRecords splits normalized output into code|value records. Lines that do
// not follow the grammar or the code-length policy are reported as deviations;
// the text itself is never changed.
func ParseRecords(text string, policy models.CodePolicy) models.ParseReport {
	report := models.ParseReport{
		Records:    []models.Record{},
		Deviations: []models.Deviation{},
	}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		record, reason := parseLine(line, policy)
		if reason != "" {
			report.Deviations = append(report.Deviations, models.Deviation{
				Line:   i + 1,
				Text:   line,
				Reason: reason,
			})
			continue
		}
		report.Records = append(report.Records, record)
	}

	return report
}

func parseLine(line string, policy models.CodePolicy) (models.Record, string) {
	fields := strings.Split(line, "|")
	if len(fields) != 2 {
		return models.Record{}, fmt.Sprintf("expected 2 fields separated by |, got %d", len(fields))
	}

	code := strings.TrimSpace(fields[0])
	value := strings.TrimSpace(fields[1])

	if !codePattern.MatchString(code) {
		return models.Record{}, "code is not a digit string"
	}
	if !policy.AcceptsLength(len(code)) {
		return models.Record{}, fmt.Sprintf("code has %d digits, not allowed by %s policy", len(code), policy)
	}
	if !valuePattern.MatchString(value) {
		return models.Record{}, "value is not a decimal with two fraction digits"
	}

	return models.Record{Code: code, Value: value}, ""
}
