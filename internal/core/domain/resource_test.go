package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResource_String(t *testing.T) {
	assert.Equal(t, "drivetrain", ResourceDrivetrain.String())
	assert.Equal(t, "claw", ResourceClaw.String())
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b []Resource
		want bool
	}{
		{"both empty", nil, nil, false},
		{"one empty", []Resource{ResourceDrivetrain}, nil, false},
		{"disjoint", []Resource{ResourceDrivetrain}, []Resource{ResourceClaw}, false},
		{"same", []Resource{ResourceClaw}, []Resource{ResourceClaw}, true},
		{"partial", []Resource{ResourceDrivetrain, ResourceClaw}, []Resource{"arm", ResourceClaw}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestContains(t *testing.T) {
	set := []Resource{ResourceDrivetrain}
	assert.True(t, Contains(set, ResourceDrivetrain))
	assert.False(t, Contains(set, ResourceClaw))
	assert.False(t, Contains(nil, ResourceClaw))
}

func TestUnion(t *testing.T) {
	got := Union(
		[]Resource{ResourceDrivetrain},
		[]Resource{ResourceClaw, ResourceDrivetrain},
		nil,
		[]Resource{"arm"},
	)
	assert.Equal(t, []Resource{ResourceDrivetrain, ResourceClaw, "arm"}, got)
	assert.Nil(t, Union())
}
