package validator

import (
	"strings"
	"testing"

	"barberbook/pkg/catalog"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"
)

func validInput() CreateInput {
	return CreateInput{
		Service:  "Haircut & Style",
		Barber:   "Dardan",
		Date:     "2026-09-15",
		Time:     "10:30 AM",
		Price:    "$45",
		Duration: "20 min",
	}
}

func TestValidateCreate_FieldRules(t *testing.T) {
	v := NewBookingValidator(nil, logger.Discard())

	tests := []struct {
		name      string
		mutate    func(*CreateInput)
		wantField string
	}{
		{name: "valid", mutate: func(i *CreateInput) {}},
		{name: "valid without duration", mutate: func(i *CreateInput) { i.Duration = "" }},
		{
			name:      "missing service",
			mutate:    func(i *CreateInput) { i.Service = "" },
			wantField: "Service",
		},
		{
			name:      "missing barber",
			mutate:    func(i *CreateInput) { i.Barber = "" },
			wantField: "Barber",
		},
		{
			name:      "slash date",
			mutate:    func(i *CreateInput) { i.Date = "15/09/2026" },
			wantField: "Date",
		},
		{
			name:      "date with time component",
			mutate:    func(i *CreateInput) { i.Date = "2026-09-15T10:00:00Z" },
			wantField: "Date",
		},
		{
			name:      "missing price",
			mutate:    func(i *CreateInput) { i.Price = "" },
			wantField: "Price",
		},
		{
			name:      "oversized service name",
			mutate:    func(i *CreateInput) { i.Service = strings.Repeat("x", 101) },
			wantField: "Service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			err := v.ValidateCreate(&input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention field %s", err, tt.wantField)
			}
		})
	}
}

func TestValidateCreate_CatalogMembership(t *testing.T) {
	v := NewBookingValidator(catalog.Default(), logger.Discard())

	input := validInput()
	if err := v.ValidateCreate(&input); err != nil {
		t.Fatalf("catalog entries rejected: %v", err)
	}

	input = validInput()
	input.Service = "Mullet Restoration"
	if err := v.ValidateCreate(&input); err == nil {
		t.Error("unknown service accepted")
	}

	input = validInput()
	input.Barber = "Nobody"
	if err := v.ValidateCreate(&input); err == nil {
		t.Error("unknown barber accepted")
	}
}

func TestValidateStatus(t *testing.T) {
	tests := []struct {
		status  string
		wantErr bool
	}{
		{status: model.StatusCompleted},
		{status: model.StatusCancelled},
		{status: model.StatusUpcoming, wantErr: true},
		{status: "done", wantErr: true},
		{status: "", wantErr: true},
		{status: "Completed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			err := ValidateStatus(tt.status)
			if tt.wantErr && err == nil {
				t.Errorf("status %q accepted", tt.status)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("status %q rejected: %v", tt.status, err)
			}
		})
	}
}
