package shaping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"isolated letter", "ب", "ﺏ"},
		{"initial and final", "بب", "ﺑﺐ"},
		{"medial", "ببب", "ﺑﺒﺐ"},
		{"right-joining breaks the chain", "دب", "ﺩﺏ"},
		{"lam alef ligature after joiner", "سلام", "ﺳﻼﻡ"},
		{"lam alef ligature isolated", "لا", "ﻻ"},
		{"lam hamza alef", "لأ", "ﻷ"},
		{"hamza does not join", "ءب", "ﺀﺏ"},
		{"tatweel joins both sides", "بـب", "ﺑـﺐ"},
		{"harakat are transparent", "بَب", "ﺑَﺐ"},
		{"latin untouched", "Ali", "Ali"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.in))
		})
	}
}

func TestShape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"latin only", "Ali", "Ali"},
		{"digits only", "1023", "1023"},
		{"arabic word reversed", "سلام", "ﻡﻼﺳ"},
		{"mixed keeps latin run intact", "الاسم : Ali", "Ali : " + "ﻢﺳﻻﺍ"},
		{"digits stay left to right", "الرقم : 1023", "1023 : " + "ﻢﻗﺮﻟﺍ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shape(tt.in))
		})
	}
}

func TestShapeMultiline(t *testing.T) {
	got := Shape("سلام\nAli")
	assert.Equal(t, "ﻡﻼﺳ\nAli", got)
}

func TestShapeLeftToRightBase(t *testing.T) {
	s := &Shaper{LeftToRight: true}
	assert.Equal(t, "Ali "+"ﻡﻼﺳ", s.Shape("Ali سلام"))
}

func TestContainsArabic(t *testing.T) {
	assert.True(t, ContainsArabic("Ali سلام"))
	assert.False(t, ContainsArabic("Ali 1023"))
	assert.False(t, ContainsArabic(""))
}
