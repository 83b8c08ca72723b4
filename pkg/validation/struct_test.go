package validation

import (
	"errors"
	"math"
	"testing"
)

type sample struct {
	Price   float64 `yaml:"price" validate:"gt=0"`
	Deposit float64 `yaml:"deposit" validate:"gte=0,ltfield=Price"`
	Count   int     `yaml:"count" validate:"gte=0,lte=10"`
	Mode    string  `yaml:"mode" validate:"oneof=a b"`
}

func TestValidateStruct(t *testing.T) {
	v := NewStructValidator()

	tests := []struct {
		name   string
		input  sample
		fields map[string]string
	}{
		{"Valid", sample{Price: 10, Deposit: 1, Count: 3, Mode: "a"}, nil},
		{"Non-positive price", sample{Price: 0, Mode: "a"}, map[string]string{
			"price":   "greater than 0",
			"deposit": "less than price",
		}},
		{"Deposit above price", sample{Price: 10, Deposit: 20, Mode: "b"}, map[string]string{
			"deposit": "less than price",
		}},
		{"Several", sample{Price: 10, Count: 11, Mode: "c"}, map[string]string{
			"count": "less than or equal to 10",
			"mode":  "one of a b",
		}},
		{"NaN", sample{Price: math.NaN(), Mode: "a"}, map[string]string{
			"price": "a finite number",
		}},
		{"Infinite", sample{Price: 10, Deposit: math.Inf(-1), Mode: "a"}, map[string]string{
			"deposit": "a finite number",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(v, tt.input)
			if tt.fields == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var errs ConfigErrors
			if !errors.As(err, &errs) {
				t.Fatalf("expected ConfigErrors, got %v", err)
			}
			got := errs.Fields()
			if len(got) != len(tt.fields) {
				t.Errorf("got violations %v, expected %v", got, tt.fields)
			}
			for field, constraint := range tt.fields {
				if got[field] != constraint {
					t.Errorf("%s: got %q, expected %q", field, got[field], constraint)
				}
			}
		})
	}
}

func TestValidateStructPointer(t *testing.T) {
	if err := ValidateStruct(NewStructValidator(), &sample{Price: 1, Mode: "a"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
