package models

import (
	"testing"
	"time"
)

func TestCampaignWindowBoundsInclusive(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	campaign := &Campaign{StartsAt: start, EndsAt: end}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{start.Add(-time.Second), false},
		{start, true},
		{start.Add(time.Hour), true},
		{end, true},
		{end.Add(time.Second), false},
	}
	for _, tc := range cases {
		if got := campaign.WindowContains(tc.at); got != tc.want {
			t.Fatalf("WindowContains(%s) = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestCampaignWindowOverlapsTouchingBoundary(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	campaign := &Campaign{StartsAt: start, EndsAt: end}

	// 边界时刻相接：该时刻两个窗口同时生效，视为相交
	if !campaign.WindowOverlaps(end, end.Add(time.Hour)) {
		t.Fatalf("window starting exactly at ends_at must overlap")
	}
	if !campaign.WindowOverlaps(start.Add(-time.Hour), start) {
		t.Fatalf("window ending exactly at starts_at must overlap")
	}
	if campaign.WindowOverlaps(end.Add(time.Second), end.Add(time.Hour)) {
		t.Fatalf("disjoint window must not overlap")
	}
}
