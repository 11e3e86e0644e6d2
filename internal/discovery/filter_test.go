package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		classes  []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			classes:  []string{"com.acme.UserTest", "com.acme.PaymentTest", "com.acme.OrderTest"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches suffix",
			classes:  []string{"com.acme.UserTest", "com.acme.PaymentTest", "com.acme.OrderTest"},
			pattern:  "*UserTest",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			classes:  []string{"com.acme.UserTest", "com.acme.PaymentTest", "com.acme.OrderTest", "com.acme.PaymentServiceTest"},
			pattern:  "*Payment*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			classes:  []string{"com.acme.UserTest", "com.acme.PaymentTest", "com.acme.OrderTest"},
			pattern:  "Payment",
			expected: 1,
		},
		{
			name:     "package wildcard",
			classes:  []string{"com.acme.billing.InvoiceTest", "com.acme.billing.TaxTest", "com.acme.UserTest"},
			pattern:  "com.acme.billing.*",
			expected: 2,
		},
		{
			name:     "no matches",
			classes:  []string{"com.acme.UserTest", "com.acme.PaymentTest"},
			pattern:  "*NonExistent*",
			expected: 0,
		},
		{
			name:     "single character wildcard",
			classes:  []string{"com.acme.V1Test", "com.acme.V2Test", "com.acme.V10Test"},
			pattern:  "V?Test",
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.classes, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d: %v", tt.expected, len(result), result)
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty class list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "*Test")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("pattern with multiple wildcards", func(t *testing.T) {
		classes := []string{"com.acme.UserServiceTest", "com.acme.UserControllerTest", "com.acme.PaymentTest"}
		result := filter.FilterByName(classes, "*User*Test")
		if len(result) != 2 {
			t.Errorf("expected 2 matches, got %d", len(result))
		}
	})

	t.Run("class in default package", func(t *testing.T) {
		result := filter.FilterByName([]string{"SmokeTest"}, "Smoke*")
		if len(result) != 1 {
			t.Errorf("expected 1 match, got %d", len(result))
		}
	})
}
