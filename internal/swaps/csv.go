package swaps

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Raw swap export layout. Every row carries at least minFields ordered
// columns; anything shorter is dropped by the parser.
//
//	0  timestamp (epoch ms)
//	1  block height
//	2  tx hash
//	3  sender address
//	4..9   three (amount, denom) inflow pairs
//	10..15 three (amount, denom) outflow pairs
const (
	minFields = 16

	colTimestamp = 0
	colSender    = 3
	colFirstIn   = 4
	colFirstOut  = 10
)

// TokenAmount is one (amount, denomination) leg of a transaction
type TokenAmount struct {
	Amount float64
	Denom  string
}

// TransactionRecord is one parsed row of the raw swap table
type TransactionRecord struct {
	TimestampMs int64
	Sender      string
	In          [3]TokenAmount
	Out         [3]TokenAmount
}

// splitFields splits one CSV line honoring double-quoted fields with
// embedded commas and "" escapes. Unquoted fields are trimmed of
// surrounding whitespace.
func splitFields(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
		quoted   bool
	)

	flush := func() {
		value := field.String()
		if !quoted {
			value = strings.TrimSpace(value)
		}
		fields = append(fields, value)
		field.Reset()
		quoted = false
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteByte(c)
			}
		case c == '"':
			inQuotes = true
			quoted = true
		case c == ',':
			flush()
		default:
			field.WriteByte(c)
		}
	}
	flush()

	return fields
}

// parseAmount parses a token amount, treating blank or malformed values as
// zero so a bad cell never poisons the aggregate with NaN.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// parseRecord converts split fields into a TransactionRecord. Returns false
// for rows that must be skipped: too few columns, no sender, or an
// unparseable timestamp.
func parseRecord(fields []string) (TransactionRecord, bool) {
	var rec TransactionRecord

	if len(fields) < minFields {
		return rec, false
	}

	sender := strings.TrimSpace(fields[colSender])
	if sender == "" {
		return rec, false
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(fields[colTimestamp]), 10, 64)
	if err != nil {
		return rec, false
	}

	rec.TimestampMs = ts
	rec.Sender = sender
	for i := 0; i < 3; i++ {
		rec.In[i] = TokenAmount{
			Amount: parseAmount(fields[colFirstIn+i*2]),
			Denom:  fields[colFirstIn+i*2+1],
		}
		rec.Out[i] = TokenAmount{
			Amount: parseAmount(fields[colFirstOut+i*2]),
			Denom:  fields[colFirstOut+i*2+1],
		}
	}

	return rec, true
}

// Denomination classification. AtomOne denoms appear both as the bare
// ticker ("atone", "uatone") and the long form ("atomone"), and the long
// form contains the ATOM ticker, so the ATOM check must exclude both.
func isAtomOneDenom(denom string) bool {
	d := strings.ToLower(denom)
	return strings.Contains(d, "atone") || strings.Contains(d, "atomone")
}

func isAtomDenom(denom string) bool {
	d := strings.ToLower(denom)
	return strings.Contains(d, "atom") && !isAtomOneDenom(d)
}
