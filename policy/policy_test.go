package policy_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/policy"
	"github.com/warp/personnel-engine/staffing"
)

const tomlPolicy = `
version        = "2024-04"
effective_from = "2024-04-01"

[entitlement]
fulltime = [10.0, 11.0, 12.0, 14.0, 16.0, 18.0, 20.0]

[entitlement.parttime]
"4" = [7.0, 8.0, 9.0, 10.0, 12.0, 13.0, 15.0]
"3" = [5.0, 6.0, 6.0, 8.0, 9.0, 10.0, 11.0]

[[agreements]]
fiscal_year         = 2024
monthly_limit_hours = 42.5
annual_limit_hours  = 320.0

[[agreements]]
fiscal_year = 2025
statutory   = true

[[requirements]]
id             = "care-staff"
kind           = "headcount"
count          = 2.0
capacity_based = true
personnel_type = "standard"

[[requirements]]
id    = "fte"
kind  = "fte"
count = 2.5

[[holidays]]
date      = "2024-05-03"
name      = "Constitution Day"
recurring = true
`

func TestParseTOML(t *testing.T) {
	// GIVEN: A TOML policy with a custom FY2024 agreement and a statutory FY2025 one
	p, err := policy.ParseTOML([]byte(tomlPolicy))
	require.NoError(t, err)

	// THEN: Every section is converted
	assert.Equal(t, "2024-04", p.Version)
	assert.Equal(t, "2024-04-01", p.EffectiveFrom.String())
	assert.Len(t, p.Entitlement.PartTime, 2)

	book, err := p.AgreementBook()
	require.NoError(t, err)
	a, err := book.For(2024)
	require.NoError(t, err)
	assert.Equal(t, 2550, a.MonthlyLimitMinutes)
	assert.Equal(t, 19200, a.AnnualLimitMinutes)
	assert.False(t, a.HasSpecialClause())

	statutory, err := book.For(2025)
	require.NoError(t, err)
	assert.Equal(t, 2700, statutory.MonthlyLimitMinutes)
	assert.Equal(t, 6, statutory.SpecialMonthsLimit)

	_, err = book.For(2026)
	assert.True(t, errors.Is(err, generic.ErrNoAgreement))

	require.Len(t, p.Requirements, 2)
	assert.Equal(t, staffing.KindHeadcount, p.Requirements[0].Kind)
	assert.True(t, p.Requirements[0].CapacityBased)
	assert.Equal(t, generic.UnitFTE, p.Requirements[1].Unit)

	assert.True(t, p.Calendar().IsHoliday("any", generic.MustParseDate("2030-05-03")))
}

func TestParseJSON_RoundTripThroughDocument(t *testing.T) {
	p, err := policy.ParseTOML([]byte(tomlPolicy))
	require.NoError(t, err)

	// WHEN: Serializing to JSON and parsing again
	doc := policy.ToDocument(p)
	again, err := policy.FromDocument(doc)
	require.NoError(t, err)

	// THEN: The policy is unchanged in substance
	assert.Equal(t, p.Version, again.Version)
	assert.Equal(t, p.Agreements[0].MonthlyLimitMinutes, again.Agreements[0].MonthlyLimitMinutes)
	assert.True(t, p.Entitlement.FullTime[6].Equal(again.Entitlement.FullTime[6]))
	assert.Len(t, again.Holidays, 1)
}

func TestParseJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"decreasing table", `{"version":"x","entitlement":{"fulltime":[10,11,9,14,16,18,20]}}`},
		{"short table", `{"version":"x","entitlement":{"fulltime":[10,11]}}`},
		{"bad part-time key", `{"version":"x","entitlement":{"fulltime":[10,11,12,14,16,18,20],"parttime":{"four":[1,2,2,2,3,3,3]}}}`},
		{"zero agreement", `{"version":"x","agreements":[{"fiscal_year":2024}]}`},
		{"unknown requirement", `{"version":"x","requirements":[{"id":"r","kind":"nurses","count":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := policy.ParseJSON([]byte(tt.json))
			require.Error(t, err)
			assert.True(t, generic.IsPolicyError(err), "got %v", err)
		})
	}

	_, err := policy.ParseJSON([]byte(`{"version":"x","effective_from":"April"}`))
	assert.True(t, errors.Is(err, generic.ErrInvalidDate))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlPolicy), 0o600))

	p, err := policy.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-04", p.Version)

	_, err = policy.LoadFile(filepath.Join(dir, "policy.yaml"))
	assert.Error(t, err)
}

func TestRegistry_SelectsVersionInForce(t *testing.T) {
	older, err := policy.ParseJSON([]byte(`{"version":"2023","effective_from":"2023-04-01"}`))
	require.NoError(t, err)
	newer, err := policy.ParseJSON([]byte(`{"version":"2024","effective_from":"2024-04-01"}`))
	require.NoError(t, err)

	reg := policy.NewRegistry(newer, older)

	assert.Equal(t, []string{"2023", "2024"}, reg.Versions())
	assert.Equal(t, "2023", reg.At(generic.MustParseDate("2024-03-31")).Version)
	assert.Equal(t, "2024", reg.At(generic.MustParseDate("2024-04-01")).Version)
	assert.Equal(t, "statutory", reg.At(generic.MustParseDate("2020-01-01")).Version)
}

func TestParseHolidayICS(t *testing.T) {
	feed := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//facility//holidays//EN",
		"BEGIN:VEVENT",
		"UID:founding-day",
		"DTSTART;VALUE=DATE:20240611",
		"SUMMARY:Founding Day",
		"RRULE:FREQ=YEARLY",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:inventory",
		"DTSTART:20240820T000000Z",
		"SUMMARY:Inventory closure",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:blank",
		"DTSTART;VALUE=DATE:20240901",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	holidays, err := policy.ParseHolidayICS(strings.NewReader(feed), "f1")
	require.NoError(t, err)

	require.Len(t, holidays, 2)
	assert.Equal(t, "founding-day", holidays[0].ID)
	assert.True(t, holidays[0].Recurring)
	assert.Equal(t, "2024-08-20", holidays[1].Date.String())
	assert.False(t, holidays[1].Recurring)

	cal := &generic.StaticCalendar{Holidays: holidays}
	assert.True(t, cal.IsHoliday("f1", generic.MustParseDate("2025-06-11")))
	assert.False(t, cal.IsHoliday("f2", generic.MustParseDate("2025-06-11")))
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "2024.toml")
	jsonPath := filepath.Join(dir, "2023.json")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlPolicy), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"version":"2023","effective_from":"2023-04-01"}`), 0o600))

	reg, err := policy.LoadRegistry(tomlPath, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023", "2024-04"}, reg.Versions())

	_, err = policy.LoadRegistry(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
