package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromTags(t *testing.T) {
	tests := []struct {
		name      string
		typeValue string
		expected  ObjectKind
	}{
		{
			name:      "fixed wing aircraft",
			typeValue: "Air+FixedWing",
			expected:  KindAircraft,
		},
		{
			name:      "missile",
			typeValue: "Medium+Weapon+Missile",
			expected:  KindMunition,
		},
		{
			name:      "bare missile tag",
			typeValue: "Missile",
			expected:  KindMunition,
		},
		{
			name:      "rotorcraft is not a fixed wing",
			typeValue: "Air+Rotorcraft",
			expected:  KindOther,
		},
		{
			name:      "ground unit",
			typeValue: "Ground+Heavy+Armor+Vehicle+Tank",
			expected:  KindOther,
		},
		{
			name:      "decoy flare",
			typeValue: "Misc+Decoy+Flare",
			expected:  KindOther,
		},
		{
			name:      "empty type",
			typeValue: "",
			expected:  KindOther,
		},
		{
			name:      "tags are case sensitive",
			typeValue: "air+fixedwing",
			expected:  KindOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindFromTags(tt.typeValue))
		})
	}
}

func TestObjectKind_String(t *testing.T) {
	assert.Equal(t, "aircraft", KindAircraft.String())
	assert.Equal(t, "munition", KindMunition.String())
	assert.Equal(t, "other", KindOther.String())
}
