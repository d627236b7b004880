package assessment

import (
	"learnhub/services/catalog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	key := &catalog.AnswerKey{Questions: []catalog.KeyQuestion{
		{ID: 1, Points: 60, CorrectOptions: []uint{10}},
		{ID: 2, Points: 15, CorrectOptions: []uint{20, 21}},
		{ID: 3, Points: 25, CorrectOptions: []uint{30}},
	}}

	tests := []struct {
		name    string
		answers map[uint][]uint
		want    int
	}{
		{"nothing answered", nil, 0},
		{"first only", map[uint][]uint{1: {10}}, 60},
		{"multi select needs every option", map[uint][]uint{1: {10}, 2: {20}}, 60},
		{"extra option spoils the question", map[uint][]uint{1: {10, 11}, 2: {21, 20}}, 15},
		{"duplicates are ignored", map[uint][]uint{1: {10, 10}, 2: {20, 21}}, 75},
		{"all correct", map[uint][]uint{1: {10}, 2: {20, 21}, 3: {30}}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(key, tt.answers))
		})
	}

	assert.Equal(t, 0, Score(&catalog.AnswerKey{}, nil), "no questions")
}
