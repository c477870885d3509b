package main

import (
	"reflect"
	"testing"
)

func TestStatusArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults to name-and-time",
			args: nil,
			want: []string{"next", "--format", "name-and-time"},
		},
		{
			name: "passes flags through",
			args: []string{"--city", "Riyadh", "--country", "SA"},
			want: []string{"next", "--format", "name-and-time", "--city", "Riyadh", "--country", "SA"},
		},
		{
			name: "explicit format wins",
			args: []string{"--format", "time-remaining"},
			want: []string{"next", "--format", "time-remaining"},
		},
		{
			name: "format with equals",
			args: []string{"--format={{.Name}}"},
			want: []string{"next", "--format={{.Name}}"},
		},
		{
			name: "version",
			args: []string{"--city", "Riyadh", "--version"},
			want: []string{"--version"},
		},
		{
			name: "single dash list-methods",
			args: []string{"-list-methods"},
			want: []string{"methods"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statusArgs(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("statusArgs(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
