package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

const (
	// MaxClassified is the last classified finishing position.
	MaxClassified = 20
	// DNFPosition is the label given to every unclassified finisher.
	DNFPosition = 21
)

// ErrMalformedRecord marks a record that fails shape validation.
var ErrMalformedRecord = errors.New("malformed record")

// Status codes published instead of a number for unclassified drivers.
var unclassifiedCodes = map[string]bool{
	"R": true, "RET": true, "DNF": true, "NC": true,
	"D": true, "DQ": true, "DSQ": true, "E": true,
	"W": true, "DNS": true, "F": true, "N": true,
}

// Result is a validated ResultRecord.
type Result struct {
	Record models.ResultRecord
	// Finish is 1..20, or DNFPosition for unclassified drivers.
	Finish int
	// Classified is false when the record carried a status code.
	Classified bool
	// Err is non-nil when the record is malformed; Finish is then meaningless.
	Err error
}

func (r Result) Valid() bool { return r.Err == nil }

// ParseFinish turns a published position into a finishing position.
func ParseFinish(position string) (finish int, classified bool, err error) {
	p := strings.ToUpper(strings.TrimSpace(position))
	if unclassifiedCodes[p] {
		return DNFPosition, false, nil
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0, false, fmt.Errorf("%w: position %q", ErrMalformedRecord, position)
	}
	if n < 1 || n > MaxClassified {
		return 0, false, fmt.Errorf("%w: position %d out of range", ErrMalformedRecord, n)
	}
	return n, true, nil
}

// parseResults validates a session's records. Order is preserved; a repeated
// driver code marks the later record malformed.
func parseResults(records []models.ResultRecord) []Result {
	seen := make(map[string]bool, len(records))
	out := make([]Result, 0, len(records))
	for _, rec := range records {
		res := Result{Record: rec}
		switch {
		case strings.TrimSpace(rec.DriverCode) == "":
			res.Err = fmt.Errorf("%w: empty driver code", ErrMalformedRecord)
		case seen[rec.DriverCode]:
			res.Err = fmt.Errorf("%w: duplicate driver %s", ErrMalformedRecord, rec.DriverCode)
		case math.IsNaN(rec.Points) || math.IsInf(rec.Points, 0) || rec.Points < 0:
			res.Err = fmt.Errorf("%w: points %v", ErrMalformedRecord, rec.Points)
		default:
			res.Finish, res.Classified, res.Err = ParseFinish(rec.Position)
		}
		seen[rec.DriverCode] = true
		out = append(out, res)
	}
	return out
}
