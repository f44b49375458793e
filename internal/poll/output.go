package poll

import (
	"errors"
	"fmt"
	"strings"

	"interiorai/internal/domain"
)

// ErrUnexpectedOutput is returned when a succeeded job carries output in a
// shape the caller cannot use.
var ErrUnexpectedOutput = errors.New("unexpected prediction output")

// OutputAt returns the string at index i of a list output.
func OutputAt(job *domain.GenerationJob, i int) (string, error) {
	items, ok := job.Output.([]any)
	if !ok {
		return "", fmt.Errorf("%w: want list, got %T", ErrUnexpectedOutput, job.Output)
	}
	if i < 0 || i >= len(items) {
		return "", fmt.Errorf("%w: index %d of %d", ErrUnexpectedOutput, i, len(items))
	}
	s, ok := items[i].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: item %d is %T", ErrUnexpectedOutput, i, items[i])
	}
	return s, nil
}

// OutputString returns a scalar string output. A one-element list is
// accepted as well.
func OutputString(job *domain.GenerationJob) (string, error) {
	switch v := job.Output.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: empty string", ErrUnexpectedOutput)
		}
		return v, nil
	case []any:
		return OutputAt(job, 0)
	default:
		return "", fmt.Errorf("%w: want string, got %T", ErrUnexpectedOutput, job.Output)
	}
}

// OutputText concatenates a streamed token list into one string with
// whitespace runs collapsed.
func OutputText(job *domain.GenerationJob) (string, error) {
	var b strings.Builder
	switch v := job.Output.(type) {
	case string:
		b.WriteString(v)
	case []any:
		for _, tok := range v {
			s, ok := tok.(string)
			if !ok {
				return "", fmt.Errorf("%w: token is %T", ErrUnexpectedOutput, tok)
			}
			b.WriteString(s)
		}
	default:
		return "", fmt.Errorf("%w: want text, got %T", ErrUnexpectedOutput, job.Output)
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}
