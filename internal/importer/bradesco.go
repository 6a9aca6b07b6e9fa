package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
	"github.com/cofre-dev/cofre/internal/period"
)

// BradescoParser parses Bradesco credit-card statement exports: semicolon
// delimited, columns Data;Histórico;Valor(US$);Valor(R$).
type BradescoParser struct{}

const (
	bradescoColDate = 0
	bradescoColDesc = 1
	bradescoColUSD  = 2
	bradescoColBRL  = 3

	// BradescoCategory is assigned to every imported row.
	BradescoCategory = "Importado - Bradesco"
)

// bradescoHeaders is the whitelist of known header lines. The bank's export
// mangles the accented "Histórico" differently depending on which tool
// produced the file (some strip the accent entirely), and some exports carry
// a trailing semicolon. Matching is byte-for-byte against this list.
var bradescoHeaders = []string{
	"Data;Histórico;Valor(US$);Valor(R$)",
	"Data;Histórico;Valor(US$);Valor(R$);",
	"Data;HistÃ³rico;Valor(US$);Valor(R$)",
	"Data;HistÃ³rico;Valor(US$);Valor(R$);",
	"Data;Hist�rico;Valor(US$);Valor(R$)",
	"Data;Hist�rico;Valor(US$);Valor(R$);",
	"Data;Histrico;Valor(US$);Valor(R$)",
	"Data;Histrico;Valor(US$);Valor(R$);",
}

// bradescoIgnore lists administrative descriptions that are not purchases:
// prior balance, statement payments, reversals, interest, fees. Matched as
// an uppercase substring of the row description.
var bradescoIgnore = []string{
	"SALDO ANTERIOR",
	"PAGTO. POR DEB EM C/C",
	"PAGAMENTO",
	"ESTORNO",
	"JUROS",
	"MULTA",
	"ANUIDADE",
}

// Format returns the parser name.
func (p *BradescoParser) Format() string { return "bradesco" }

// Detect reports whether contents carry a Bradesco statement header.
func (p *BradescoParser) Detect(contents []byte) bool {
	for _, line := range strings.Split(string(contents), "\n") {
		if isBradescoHeader(strings.TrimRight(line, "\r")) {
			return true
		}
	}
	return false
}

func isBradescoHeader(line string) bool {
	for _, h := range bradescoHeaders {
		if line == h {
			return true
		}
	}
	return false
}

// Parse reads a Bradesco statement. Exports often contain several
// concatenated dumps of the same statement; only the block after the LAST
// header line is authoritative, and rows are read from there until an empty
// or short line. Every row is a debit with its value taken as absolute.
func (p *BradescoParser) Parse(r io.Reader) (ParseResult, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return ParseResult{}, fmt.Errorf("reading statement: %w", err)
	}

	var result ParseResult

	headerAt := -1
	for i, line := range lines {
		if isBradescoHeader(line) {
			headerAt = i
		}
	}
	if headerAt == -1 {
		return ParseResult{}, fmt.Errorf("bradesco: header line not found")
	}

	for i := headerAt + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.Count(line, ";") < 3 {
			break
		}
		result.TotalLines++

		entry, skip, err := parseBradescoRow(line)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: i + 1, Message: err.Error()})
			continue
		}
		if skip {
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

func parseBradescoRow(line string) (entry model.StatementEntry, skip bool, err error) {
	fields := strings.Split(line, ";")

	desc := strings.TrimSpace(fields[bradescoColDesc])
	upper := strings.ToUpper(desc)
	for _, ignore := range bradescoIgnore {
		if strings.Contains(upper, ignore) {
			return model.StatementEntry{}, true, nil
		}
	}

	date, err := parseBradescoDate(strings.TrimSpace(fields[bradescoColDate]))
	if err != nil {
		return model.StatementEntry{}, false, err
	}

	value, err := moneyutil.ParseBR(fields[bradescoColBRL])
	if err != nil {
		return model.StatementEntry{}, false, fmt.Errorf("parsing value %q: %w", fields[bradescoColBRL], err)
	}

	var notes string
	if usd := strings.TrimSpace(fields[bradescoColUSD]); usd != "" && usd != "0,00" {
		notes = "US$ " + usd
	}

	return model.StatementEntry{
		Date:        date,
		Description: desc,
		Value:       value.Abs(),
		Kind:        model.Debit,
		Category:    BradescoCategory,
		Notes:       notes,
	}, false, nil
}

// parseBradescoDate accepts DD/MM/YYYY and DD/MM; the short form assumes the
// current year.
func parseBradescoDate(s string) (time.Time, error) {
	if d, err := time.Parse("02/01/2006", s); err == nil {
		return period.Truncate(d), nil
	}
	if d, err := time.Parse("02/01", s); err == nil {
		return period.Date(time.Now().Year(), d.Month(), d.Day()), nil
	}
	return time.Time{}, fmt.Errorf("parsing date %q", s)
}
