package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value form",
			args:    []string{"-r", "/data", "-x", "other"},
			allowed: []string{"-r"},
			want:    []string{"-r", "/data"},
		},
		{
			name:    "equals form",
			args:    []string{"-r=/data", "-x=other"},
			allowed: []string{"-r"},
			want:    []string{"-r=/data"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-r", "-x"},
			allowed: []string{"-r"},
			want:    []string{"-r"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-x", "1", "-y=2"},
			allowed: []string{"-r"},
			want:    []string{},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: []string{"-r"},
			want:    []string{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}
