package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

func TestCalculateDelayMs(t *testing.T) {
	tests := []struct {
		name string
		cfg  *model.ActionConfig
		want int64
	}{
		{"nil config", nil, 0},
		{"zero", &model.ActionConfig{}, 0},
		{"one minute", &model.ActionConfig{Minutes: 1}, 60000},
		{"one hour", &model.ActionConfig{Hours: 1}, 3600000},
		{"one day", &model.ActionConfig{Days: 1}, 86400000},
		{"mixed", &model.ActionConfig{Days: 2, Hours: 3, Minutes: 30}, ((2*24+3)*60 + 30) * 60000},
		{"out of range accepted", &model.ActionConfig{Hours: 30, Minutes: 90}, (30*60 + 90) * 60000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateDelayMs(tt.cfg))
		})
	}
}

func TestDelayDuration(t *testing.T) {
	assert.Equal(t, time.Minute, DelayDuration(&model.ActionConfig{Minutes: 1}))
	assert.Equal(t, time.Duration(0), DelayDuration(nil))
}
