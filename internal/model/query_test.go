package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "zero falls back to default", in: 0, want: DefaultMaxResults},
		{name: "negative falls back to default", in: -3, want: DefaultMaxResults},
		{name: "explicit value kept", in: 10, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Query{Question: "anything", MaxResults: tt.in}
			q.Normalize()
			assert.Equal(t, tt.want, q.MaxResults)
		})
	}
}

func TestStreamEventTerminal(t *testing.T) {
	assert.False(t, StreamEvent{Kind: EventStatus}.Terminal())
	assert.False(t, StreamEvent{Kind: EventSources}.Terminal())
	assert.False(t, StreamEvent{Kind: EventChunk}.Terminal())
	assert.True(t, StreamEvent{Kind: EventError}.Terminal())
	assert.True(t, StreamEvent{Kind: EventComplete}.Terminal())
}
