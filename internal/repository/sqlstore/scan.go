package sqlstore

import (
	"database/sql"
	"encoding/json"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/money"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// dayOf is the local calendar date used for day and month bucketing
func dayOf(t time.Time) string {
	return t.In(time.Local).Format(dayLayout)
}

func unixPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0)
	return &t
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeList(raw string) []string {
	items := []string{}
	if raw == "" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []string{}
	}
	return items
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// conditions accumulates AND-ed WHERE clauses with their arguments
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) String() string {
	return strings.Join(c.clauses, " AND ")
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// centsOf converts amounts for a write, rejecting any that would not fit the column
func centsOf(amounts ...decimal.Decimal) ([]int64, error) {
	out := make([]int64, len(amounts))
	for i, d := range amounts {
		c, err := money.ToCents(d)
		if err != nil {
			return nil, errors.BadRequest("Amount " + d.String() + " exceeds the storable range")
		}
		out[i] = c
	}
	return out, nil
}

// boundCents converts a filter bound, saturating at the column limits
func boundCents(d decimal.Decimal) int64 {
	if c, err := money.ToCents(d); err == nil {
		return c
	}
	if d.IsNegative() {
		return math.MinInt64
	}
	return math.MaxInt64
}

var lastSeq atomic.Int64

// nextSeq returns a strictly increasing insertion sequence seeded from the clock,
// so rows written within the same second still order by arrival
func nextSeq(now time.Time) int64 {
	for {
		last := lastSeq.Load()
		next := now.UnixNano()
		if next <= last {
			next = last + 1
		}
		if lastSeq.CompareAndSwap(last, next) {
			return next
		}
	}
}
