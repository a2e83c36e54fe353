package calculator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MaxNumber is the largest value that contributes to a sum.
const MaxNumber = 1000

var (
	// ErrNegatives is matched by NegativesError via errors.Is
	ErrNegatives = errors.New("negatives not allowed")
	// ErrInvalidNumber is returned for tokens that are not integers
	ErrInvalidNumber = errors.New("invalid number")
	// ErrInvalidHeader is returned for a malformed "//" delimiter header
	ErrInvalidHeader = errors.New("invalid delimiter header")
)

var defaultDelimiters = []string{",", "\n"}

// NegativesError lists every negative number found in the input, in order.
type NegativesError struct {
	Numbers []int
}

func (e *NegativesError) Error() string {
	parts := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%s: %s", ErrNegatives, strings.Join(parts, ", "))
}

func (e *NegativesError) Is(target error) bool {
	return target == ErrNegatives
}

// StringCalculator sums numbers encoded in a string.
type StringCalculator interface {
	Add(input string) (int, error)
}

type stringCalculator struct{}

// New returns the default StringCalculator
func New() StringCalculator {
	return stringCalculator{}
}

func (stringCalculator) Add(input string) (int, error) {
	if strings.TrimSpace(input) == "" {
		return 0, nil
	}

	delimiters, body, err := parseHeader(input)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(body) == "" {
		return 0, nil
	}

	var (
		sum       int
		negatives []int
	)
	for _, token := range splitter(delimiters).Split(body, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			return 0, fmt.Errorf("%w: missing number in %q", ErrInvalidNumber, input)
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, token)
		}
		switch {
		case n < 0:
			negatives = append(negatives, n)
		case n <= MaxNumber:
			sum += n
		}
	}

	if len(negatives) > 0 {
		return 0, &NegativesError{Numbers: negatives}
	}
	return sum, nil
}

// parseHeader splits an optional "//" header from the numbers and returns
// the delimiters in effect.
func parseHeader(input string) ([]string, string, error) {
	if !strings.HasPrefix(input, "//") {
		return defaultDelimiters, input, nil
	}

	end := strings.Index(input, "\n")
	if end < 0 {
		return nil, "", fmt.Errorf("%w: missing newline after %q", ErrInvalidHeader, input)
	}
	header, body := input[2:end], input[end+1:]
	if header == "" {
		return nil, "", fmt.Errorf("%w: empty delimiter", ErrInvalidHeader)
	}

	delimiters := append([]string{}, defaultDelimiters...)
	// a lone "[" is a single-character delimiter, not a bracket list
	if len(header) == 1 || header[0] != '[' {
		return append(delimiters, header), body, nil
	}

	for rest := header; rest != ""; {
		if rest[0] != '[' {
			return nil, "", fmt.Errorf("%w: expected '[' in %q", ErrInvalidHeader, header)
		}
		closing := strings.Index(rest, "]")
		if closing < 0 {
			return nil, "", fmt.Errorf("%w: unterminated delimiter in %q", ErrInvalidHeader, header)
		}
		if closing == 1 {
			return nil, "", fmt.Errorf("%w: empty delimiter", ErrInvalidHeader)
		}
		delimiters = append(delimiters, rest[1:closing])
		rest = rest[closing+1:]
	}
	return delimiters, body, nil
}

// splitter builds a regexp matching any delimiter, longest first so that
// "**" wins over "*".
func splitter(delimiters []string) *regexp.Regexp {
	sorted := append([]string{}, delimiters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	quoted := make([]string, len(sorted))
	for i, d := range sorted {
		quoted[i] = regexp.QuoteMeta(d)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}
