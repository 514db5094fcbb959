package parser

import (
	"math"
	"testing"
)

func TestFormatToRupiah(t *testing.T) {
	tests := []struct {
		price int64
		want  string
	}{
		{0, "Rp 0"},
		{999, "Rp 999"},
		{3000, "Rp 3.000"},
		{50000, "Rp 50.000"},
		{521000, "Rp 521.000"},
		{1200000, "Rp 1.200.000"},
		{-5000, "-Rp 5.000"},
		{math.MaxInt64, "Rp 9.223.372.036.854.775.807"},
		{math.MinInt64, "-Rp 9.223.372.036.854.775.808"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatToRupiah(tt.price); got != tt.want {
				t.Errorf("FormatToRupiah(%d) = %q, want %q", tt.price, got, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mangga", "Mangga"},
		{"nabati DAN oreo", "Nabati Dan Oreo"},
		{"coca-cola", "Coca-cola"},
		{"2 roti", "2 Roti"},
		{"éclair", "Éclair"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := titleCase(tt.in); got != tt.want {
				t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     Candidate
		wantOK bool
	}{
		{"valid", Candidate{ItemName: "kopi", Price: 1}, true},
		{"blank name", Candidate{ItemName: "   ", Price: 1000}, false},
		{"zero price", Candidate{ItemName: "kopi", Price: 0}, false},
		{"negative price", Candidate{ItemName: "kopi", Price: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := validate(tt.in)
			if ok != tt.wantOK {
				t.Errorf("validate(%+v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
		})
	}
}
