package match

import (
	"errors"
	"testing"
)

func TestParseManualTime(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "0125", want: 85},
		{in: "0100", want: 60},
		{in: "125", want: 85},
		{in: "5", want: 5},
		{in: "59", want: 59},
		{in: "1000", want: 600},
		{in: "5959", want: 3599},
		{in: " 0230 ", want: 150},
		{in: "", wantErr: true},
		{in: "60", wantErr: true},
		{in: "0075", wantErr: true},
		{in: "6000", wantErr: true},
		{in: "12345", wantErr: true},
		{in: "1a", wantErr: true},
		{in: "-100", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseManualTime(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidManualTime) {
					t.Fatalf("ParseManualTime(%q) err = %v, want ErrInvalidManualTime", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseManualTime(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseManualTime(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(65); got != "01:05" {
		t.Errorf("FormatClock(65) = %q", got)
	}
	if got := FormatClock(1200); got != "20:00" {
		t.Errorf("FormatClock(1200) = %q", got)
	}
}

func TestPeriodForTime(t *testing.T) {
	if got := PeriodForTime(1199); got != PeriodFirst {
		t.Errorf("PeriodForTime(1199) = %s", got)
	}
	if got := PeriodForTime(1200); got != PeriodSecond {
		t.Errorf("PeriodForTime(1200) = %s", got)
	}
}
