package genbank

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ErrNoLocus is returned when the input does not start a GenBank record.
var ErrNoLocus = errors.New("missing LOCUS line")

// Record is the summary of one GenBank entry.
type Record struct {
	Locus      string `json:"locus"`
	Length     int    `json:"length"`
	Unit       string `json:"unit,omitempty"`
	Molecule   string `json:"molecule,omitempty"`
	Topology   string `json:"topology,omitempty"`
	Division   string `json:"division,omitempty"`
	Date       string `json:"date,omitempty"`
	Definition string `json:"definition,omitempty"`
	Accession  string `json:"accession,omitempty"`
	Version    string `json:"version,omitempty"`
	Organism   string `json:"organism,omitempty"`
	Sequence   string `json:"sequence,omitempty"`
}

// Parse reads the first record of a GenBank flat file. Continuation lines
// (indented by twelve columns) are joined to their keyword.
func Parse(r io.Reader) (*Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	rec := &Record{}
	var seq strings.Builder
	var key string
	seenLocus := false
	inOrigin := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r ")
		if line == "//" {
			break
		}
		if inOrigin {
			for _, r := range line {
				if unicode.IsLetter(r) {
					seq.WriteRune(unicode.ToUpper(r))
				}
			}
			continue
		}
		if line == "" {
			continue
		}
		if line[0] != ' ' {
			fields := strings.Fields(line)
			key = fields[0]
			rest := strings.TrimSpace(strings.TrimPrefix(line, key))
			switch key {
			case "LOCUS":
				if err := parseLocus(rec, fields[1:]); err != nil {
					return nil, err
				}
				seenLocus = true
			case "DEFINITION":
				rec.Definition = rest
			case "ACCESSION":
				if f := strings.Fields(rest); len(f) > 0 {
					rec.Accession = f[0]
				}
			case "VERSION":
				if f := strings.Fields(rest); len(f) > 0 {
					rec.Version = f[0]
				}
			case "ORIGIN":
				inOrigin = true
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case key == "DEFINITION" && strings.HasPrefix(line, strings.Repeat(" ", 12)):
			rec.Definition += " " + trimmed
		case key == "SOURCE" && strings.HasPrefix(trimmed, "ORGANISM"):
			rec.Organism = strings.TrimSpace(strings.TrimPrefix(trimmed, "ORGANISM"))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if !seenLocus {
		return nil, ErrNoLocus
	}
	rec.Definition = strings.TrimSuffix(rec.Definition, ".")
	rec.Sequence = seq.String()
	if rec.Length == 0 {
		rec.Length = len(rec.Sequence)
	}
	return rec, nil
}

// parseLocus reads `LOCUS name length bp|aa [molecule] [topology] division date`.
func parseLocus(rec *Record, f []string) error {
	if len(f) == 0 {
		return fmt.Errorf("%w: empty", ErrNoLocus)
	}
	rec.Locus = f[0]
	used := map[int]bool{0: true}
	for i := 1; i < len(f); i++ {
		switch f[i] {
		case "bp", "aa":
			rec.Unit = f[i]
			used[i] = true
			if n, err := strconv.Atoi(f[i-1]); err == nil {
				rec.Length = n
				used[i-1] = true
			}
			if j := i + 1; j < len(f)-2 && f[j] != "linear" && f[j] != "circular" {
				rec.Molecule = f[j]
				used[j] = true
			}
		case "linear", "circular":
			rec.Topology = f[i]
			used[i] = true
		}
	}
	if n := len(f); n >= 3 && !used[n-1] && !used[n-2] {
		rec.Date = f[n-1]
		rec.Division = f[n-2]
	}
	return nil
}

// Summary renders a short human-readable description of the record.
func (r *Record) Summary(seqPreview int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Locus: %s (%d %s)\n", r.Locus, r.Length, r.unitOrDefault()))
	if r.Definition != "" {
		b.WriteString(fmt.Sprintf("Definition: %s\n", r.Definition))
	}
	if r.Accession != "" {
		b.WriteString(fmt.Sprintf("Accession: %s\n", r.Accession))
	}
	if r.Version != "" {
		b.WriteString(fmt.Sprintf("Version: %s\n", r.Version))
	}
	if r.Organism != "" {
		b.WriteString(fmt.Sprintf("Organism: %s\n", r.Organism))
	}
	if r.Sequence != "" {
		s := r.Sequence
		if seqPreview > 0 && len(s) > seqPreview {
			s = s[:seqPreview] + "..."
		}
		b.WriteString(fmt.Sprintf("Sequence: %s\n", s))
	}
	return b.String()
}

func (r *Record) unitOrDefault() string {
	if r.Unit == "" {
		return "bp"
	}
	return r.Unit
}
