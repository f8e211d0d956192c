package service

import (
	"testing"
)

func TestValidateUnits(t *testing.T) {
	tests := []struct {
		name    string
		units   []ItemUnitInput
		wantErr bool
	}{
		{
			name: "base unit with secondary units",
			units: []ItemUnitInput{
				{Name: "Nos", ConversionFactor: 1, IsBaseUnit: true},
				{Name: "Box", ConversionFactor: 10},
				{Name: "Carton", ConversionFactor: 100},
			},
		},
		{
			name:  "no units at all",
			units: nil,
		},
		{
			name: "base unit with conversion factor other than 1",
			units: []ItemUnitInput{
				{Name: "kg", ConversionFactor: 5, IsBaseUnit: true},
				{Name: "quintal", ConversionFactor: 100},
			},
			wantErr: true,
		},
		{
			name: "no base unit flagged",
			units: []ItemUnitInput{
				{Name: "Nos", ConversionFactor: 1},
				{Name: "Box", ConversionFactor: 10},
			},
			wantErr: true,
		},
		{
			name: "two base units flagged",
			units: []ItemUnitInput{
				{Name: "Nos", ConversionFactor: 1, IsBaseUnit: true},
				{Name: "Piece", ConversionFactor: 1, IsBaseUnit: true},
			},
			wantErr: true,
		},
		{
			name: "missing unit name",
			units: []ItemUnitInput{
				{Name: "", ConversionFactor: 1, IsBaseUnit: true},
			},
			wantErr: true,
		},
		{
			name: "duplicate unit name",
			units: []ItemUnitInput{
				{Name: "Nos", ConversionFactor: 1, IsBaseUnit: true},
				{Name: "Nos", ConversionFactor: 10},
			},
			wantErr: true,
		},
		{
			name: "zero conversion factor",
			units: []ItemUnitInput{
				{Name: "Nos", ConversionFactor: 1, IsBaseUnit: true},
				{Name: "Box", ConversionFactor: 0},
			},
			wantErr: true,
		},
		{
			name: "negative conversion factor",
			units: []ItemUnitInput{
				{Name: "Nos", ConversionFactor: 1, IsBaseUnit: true},
				{Name: "Box", ConversionFactor: -10},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUnits(tt.units)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateUnits() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
