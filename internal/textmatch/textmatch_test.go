package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Додати автора", Normalize("  \nДодати\t\tавтора \n"))
	// и + combining breve composes to й
	assert.Equal(t, "й", Normalize("й"))
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     bool
	}{
		{name: "substring", haystack: "📚 Книги", needle: "Книги", want: true},
		{name: "whitespace inside markup", haystack: "Рік\n  ▲", needle: "Рік ▲", want: true},
		{name: "case sensitive", haystack: "Email", needle: "email", want: false},
		{name: "decomposed needle", haystack: "Лиса й пес", needle: "й пес", want: true},
		{name: "missing", haystack: "Автори", needle: "Книги", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.haystack, tt.needle))
		})
	}
}

func TestFirstAndCountContaining(t *testing.T) {
	texts := []string{"➕ Додати автора", "➕ Додати книгу", "👤 Автори", "📚 Книги"}

	assert.Equal(t, 2, FirstContaining(texts, "Автори"))
	assert.Equal(t, 0, FirstContaining(texts, "Додати"))
	assert.Equal(t, -1, FirstContaining(texts, "Видалити"))
	assert.Equal(t, 2, CountContaining(texts, "Додати"))
	assert.Equal(t, 0, CountContaining(nil, "x"))
}
