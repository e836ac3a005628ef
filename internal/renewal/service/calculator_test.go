package service

import (
	"testing"
	"time"

	"github.com/casekit/lexbill/internal/config"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func TestComputeLineItems_MinimalRequest(t *testing.T) {
	fees := config.DefaultFeeSchedule()
	items := ComputeLineItems(renewaldomain.FeeRequest{
		ProcessingSpeed: renewaldomain.ProcessingSpeedStandard,
	}, fees, testNow)

	assert.Len(t, items, 2)
	assert.Equal(t, "Section 8 Declaration Service", items[0].Name)
	assert.Equal(t, "USPTO Section 8 Filing Fee", items[1].Name)
	assert.Equal(t, fees.BaseServiceFeeCents+fees.Section8FeeCents, Total(items))
}

func TestComputeLineItems_RushAddsExactlyOneItem(t *testing.T) {
	fees := config.DefaultFeeSchedule()
	req := renewaldomain.FeeRequest{ProcessingSpeed: renewaldomain.ProcessingSpeedStandard}

	standard := ComputeLineItems(req, fees, testNow)

	req.ProcessingSpeed = renewaldomain.ProcessingSpeedRush
	rush := ComputeLineItems(req, fees, testNow)

	assert.Len(t, rush, len(standard)+1)
	assert.Equal(t, Total(standard)+fees.RushFeeCents, Total(rush))
	assert.Equal(t, "Rush Processing", rush[1].Name)
}

func TestComputeLineItems_GracePeriodWindow(t *testing.T) {
	fees := config.DefaultFeeSchedule()

	cases := []struct {
		name       string
		registered time.Time
		inGrace    bool
	}{
		{"5 years 7 months ago", testNow.AddDate(-5, -7, 0), true},
		{"5 years 4 months ago", testNow.AddDate(-5, -4, 0), false},
		{"exactly 6 approximate years ago", testNow.Add(-6 * 365 * 24 * time.Hour), true},
		{"6 approximate years and a day ago", testNow.Add(-(6*365 + 1) * 24 * time.Hour), false},
		{"9 years 8 months ago", testNow.AddDate(-9, -8, 0), true},
		{"9 years 2 months ago", testNow.AddDate(-9, -2, 0), false},
		{"exactly 10 approximate years ago", testNow.Add(-10 * 365 * 24 * time.Hour), true},
		{"2 years ago", testNow.AddDate(-2, 0, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := ComputeLineItems(renewaldomain.FeeRequest{
				ProcessingSpeed:  renewaldomain.ProcessingSpeedStandard,
				RegistrationDate: timePtr(tc.registered),
			}, fees, testNow)

			found := false
			for _, item := range items {
				if item.Name == "USPTO Grace Period Fee" {
					found = true
				}
			}
			assert.Equal(t, tc.inGrace, found)
		})
	}
}

func TestComputeLineItems_Section15Eligibility(t *testing.T) {
	fees := config.DefaultFeeSchedule()

	cases := []struct {
		name       string
		section15  bool
		continuous renewaldomain.Answer
		challenged renewaldomain.Answer
		wantFee    bool
	}{
		{"not requested", false, renewaldomain.AnswerYes, renewaldomain.AnswerNo, false},
		{"clean answers", true, renewaldomain.AnswerYes, renewaldomain.AnswerNo, true},
		{"unknown answers are permissive", true, renewaldomain.AnswerUnknown, renewaldomain.AnswerUnknown, true},
		{"missing answers are permissive", true, "", "", true},
		{"not continuous blocks", true, renewaldomain.AnswerNo, renewaldomain.AnswerNo, false},
		{"challenged blocks", true, renewaldomain.AnswerYes, renewaldomain.AnswerYes, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := ComputeLineItems(renewaldomain.FeeRequest{
				ProcessingSpeed:     renewaldomain.ProcessingSpeedStandard,
				Section15:           tc.section15,
				Section15Continuous: tc.continuous,
				Section15Challenged: tc.challenged,
			}, fees, testNow)

			found := false
			for _, item := range items {
				if item.Name == "USPTO Section 15 Filing Fee" {
					found = true
				}
			}
			assert.Equal(t, tc.wantFee, found)
		})
	}
}

func TestComputeLineItems_FullScenario(t *testing.T) {
	fees := config.DefaultFeeSchedule()

	// Registered 5.8 approximate years ago: inside the first grace window.
	registered := testNow.Add(-time.Duration(5.8*365*24) * time.Hour)

	items := ComputeLineItems(renewaldomain.FeeRequest{
		ProcessingSpeed:     renewaldomain.ProcessingSpeedRush,
		Section15:           true,
		Section15Continuous: renewaldomain.AnswerYes,
		Section15Challenged: renewaldomain.AnswerNo,
		Section9:            true,
		RegistrationDate:    timePtr(registered),
	}, fees, testNow)

	assert.Len(t, items, 6)
	assert.Equal(t, []string{
		"Section 8 Declaration Service",
		"Rush Processing",
		"USPTO Section 8 Filing Fee",
		"USPTO Grace Period Fee",
		"USPTO Section 15 Filing Fee",
		"USPTO Section 9 Renewal Fee",
	}, itemNames(items))
	assert.Equal(t, int64(145000), Total(items))
}

func TestTotal_Empty(t *testing.T) {
	assert.Equal(t, int64(0), Total(nil))
}

func itemNames(items []renewaldomain.LineItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
