package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/genricoloni/lineup/internal/domain"
)

// ParseSequence turns operator text into an ordered list of IDs.
//
// When the text contains a space or a comma it is split on those delimiters
// and every token must be an integer ("2 1 3", "2,1,3", "10, 2"). Otherwise
// each digit is a single ID ("213") and any other character is ignored.
func ParseSequence(input string) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty input", domain.ErrInvalidSequence)
	}

	var order []int
	if strings.ContainsAny(input, " ,") {
		tokens := strings.FieldsFunc(input, func(r rune) bool {
			return r == ' ' || r == ','
		})
		for _, tok := range tokens {
			id, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidSequence, tok)
			}
			order = append(order, id)
		}
		return order, nil
	}

	for _, r := range input {
		if r < '0' || r > '9' {
			continue
		}
		order = append(order, int(r-'0'))
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: no monitor IDs in %q", domain.ErrInvalidSequence, input)
	}
	return order, nil
}

// Validate checks that order is a permutation of exactly the catalog's IDs
func (c *Catalog) Validate(order []int) error {
	if len(order) != c.Len() {
		return fmt.Errorf("%w: expected %d IDs, got %d", domain.ErrInvalidSequence, c.Len(), len(order))
	}

	seen := make(map[int]bool, len(order))
	for _, id := range order {
		if _, ok := c.monitors[id]; !ok {
			return fmt.Errorf("%w: unknown monitor ID %d", domain.ErrInvalidSequence, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: monitor ID %d used more than once", domain.ErrInvalidSequence, id)
		}
		seen[id] = true
	}
	return nil
}

// ParseAndValidate combines ParseSequence and Validate
func (c *Catalog) ParseAndValidate(input string) ([]int, error) {
	order, err := ParseSequence(input)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(order); err != nil {
		return nil, err
	}
	return order, nil
}
