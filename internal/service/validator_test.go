package service

import (
	"testing"

	"ean-extractor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords_Native(t *testing.T) {
	report := ParseRecords("8058664165889|4.00\n12345678|2.00\n123456789|10.50", models.CodePolicyNative)

	assert.True(t, report.Clean())
	assert.Equal(t, []models.Record{
		{Code: "8058664165889", Value: "4.00"},
		{Code: "12345678", Value: "2.00"},
		{Code: "123456789", Value: "10.50"},
	}, report.Records)
}

func TestParseRecords_Fixed13RejectsShortCodes(t *testing.T) {
	report := ParseRecords("8058664165889|4.00\n12345678|2.00", models.CodePolicyFixed13)

	require.Len(t, report.Records, 1)
	require.Len(t, report.Deviations, 1)
	assert.Equal(t, 2, report.Deviations[0].Line)
	assert.Equal(t, "12345678|2.00", report.Deviations[0].Text)
	assert.Contains(t, report.Deviations[0].Reason, "8 digits")
}

func TestParseRecords_Deviations(t *testing.T) {
	text := "Ecco la lista:\n8058664165889|4\n8058664165889|4,00\n80586641658AB|4.00\n8058664165889|4.00|x\n\n80586641658891|1.00"
	report := ParseRecords(text, models.CodePolicyNative)

	assert.Empty(t, report.Records)
	require.Len(t, report.Deviations, 6)
	assert.Equal(t, 1, report.Deviations[0].Line)
	assert.Contains(t, report.Deviations[0].Reason, "got 1")
	assert.Contains(t, report.Deviations[1].Reason, "two fraction digits")
	assert.Contains(t, report.Deviations[2].Reason, "two fraction digits")
	assert.Contains(t, report.Deviations[3].Reason, "digit string")
	assert.Contains(t, report.Deviations[4].Reason, "got 3")
	// blank line 6 is skipped, the 14 digit code sits on line 7
	assert.Equal(t, 7, report.Deviations[5].Line)
	assert.Contains(t, report.Deviations[5].Reason, "14 digits")
}

func TestParseRecords_Empty(t *testing.T) {
	report := ParseRecords("", models.CodePolicyFixed13)

	assert.NotNil(t, report.Records)
	assert.NotNil(t, report.Deviations)
	assert.True(t, report.Clean())
}
