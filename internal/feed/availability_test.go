package feed

import (
	"testing"

	"github.com/ETAnderson/merchantfeed/internal/domain"
)

func TestParseQuantity(t *testing.T) {
	tests := map[string]int64{
		"5":     5,
		"5.9":   5,
		"-2":    -2,
		" 3 ":   3,
		"":      0,
		"lots":  0,
		"NaN":   0,
		"+Inf":  0,
		"1e2":   100,
		"0.999": 0,
	}
	for in, want := range tests {
		if got := ParseQuantity(in); got != want {
			t.Fatalf("ParseQuantity(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestInferAvailability(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AvailabilityDefault = "preorder"

	tests := []struct {
		name string
		qty  string
		mode string
		cfg  Config
		want domain.Availability
	}{
		{"stock wins over flag", "5", "1", cfg, domain.AvailabilityInStock},
		{"stock without flag", "5", "", cfg, domain.AvailabilityInStock},
		{"flag allows orders", "0", "1", cfg, domain.AvailabilityBackorder},
		{"flag value 2", "0", "2", cfg, domain.AvailabilityBackorder},
		{"flag zero", "0", "0", cfg, domain.AvailabilityPreorder},
		{"flag absent", "0", "", cfg, domain.AvailabilityPreorder},
		{"bad quantity", "n/a", "", cfg, domain.AvailabilityPreorder},
		{"negative stock", "-3", "1", cfg, domain.AvailabilityBackorder},
		{"empty default", "0", "", Config{}, domain.AvailabilityOutOfStock},
		{"restricted modes match", "0", "1", Config{BackorderModes: []string{"1"}}, domain.AvailabilityBackorder},
		{"restricted modes miss", "0", "2", Config{BackorderModes: []string{"1"}}, domain.AvailabilityOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferAvailability(tt.qty, tt.mode, tt.cfg)
			if got != tt.want {
				t.Fatalf("expected %q got %q", tt.want, got)
			}
		})
	}
}

func TestSplitIDs(t *testing.T) {
	got := SplitIDs(" 10, ,11,,12 ")
	if len(got) != 3 || got[0] != "10" || got[1] != "11" || got[2] != "12" {
		t.Fatalf("unexpected ids: %#v", got)
	}
	if SplitIDs("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
