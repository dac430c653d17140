package slot

import "testing"

func TestParseFormatHHMMRoundTrip(t *testing.T) {
	minutes, err := ParseHHMM("08:30")
	if err != nil {
		t.Fatalf("ParseHHMM: %v", err)
	}
	if minutes != 8*60+30 {
		t.Errorf("minutes = %d, want %d", minutes, 8*60+30)
	}
	if got := FormatHHMM(minutes); got != "08:30" {
		t.Errorf("FormatHHMM(%d) = %q, want 08:30", minutes, got)
	}
}

func TestParseHHMMRejectsOutOfRange(t *testing.T) {
	cases := []string{"24:00", "12:60", "abc", "8", "8:3:0"}
	for _, c := range cases {
		if _, err := ParseHHMM(c); err == nil {
			t.Errorf("ParseHHMM(%q) expected error, got nil", c)
		}
	}
}

func TestWindowFits(t *testing.T) {
	w := Window{Start: 480, End: 600}
	if !w.Fits(480, 60) {
		t.Error("match at window start should fit")
	}
	if w.Fits(550, 60) {
		t.Error("match overrunning window end should not fit")
	}
	if w.Fits(400, 30) {
		t.Error("match before window start should not fit")
	}
}

func TestCourtFitsAtChecksAllSlots(t *testing.T) {
	c := Court{Name: "Court 1", Slots: []Window{{Start: 480, End: 540}, {Start: 600, End: 720}}}
	if !c.FitsAt(600, 60) {
		t.Error("expected match to fit in the second slot")
	}
	if c.FitsAt(540, 60) {
		t.Error("match spanning the gap between slots should not fit")
	}
}

func TestCourtValidateRejectsOverlap(t *testing.T) {
	c := Court{Name: "Court 1", Slots: []Window{{Start: 480, End: 600}, {Start: 540, End: 660}}}
	if err := c.Validate(); err == nil {
		t.Error("expected overlapping slots to fail validation")
	}
}

func TestCourtValidateRequiresName(t *testing.T) {
	c := Court{Slots: []Window{{Start: 480, End: 540}}}
	if err := c.Validate(); err == nil {
		t.Error("expected unnamed court to fail validation")
	}
}

func TestGlobalSettingsValidate(t *testing.T) {
	valid := GlobalSettings{
		StartTime:              480,
		EndTime:                1200,
		EstimatedMatchDuration: 50,
		Courts:                 []Court{{Name: "Court 1", Slots: []Window{{Start: 480, End: 1200}}}},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid settings to pass, got %v", err)
	}

	noCourts := valid
	noCourts.Courts = nil
	if err := noCourts.Validate(); err == nil {
		t.Error("expected settings with no courts to fail validation")
	}

	badWindow := valid
	badWindow.EndTime = badWindow.StartTime
	if err := badWindow.Validate(); err == nil {
		t.Error("expected endTime == startTime to fail validation")
	}

	badDuration := valid
	badDuration.EstimatedMatchDuration = 0
	if err := badDuration.Validate(); err == nil {
		t.Error("expected zero match duration to fail validation")
	}
}
