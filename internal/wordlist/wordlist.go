// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// List is a word list with optional relative frequencies.
type List struct {
	Words []string
	// Weights is nil when the file carried no frequency column.
	Weights []float64
}

// Len returns the number of words.
func (l List) Len() int { return len(l.Words) }

// Filter returns the words accepted by keep, with their weights.
func (l List) Filter(keep FilterFunc) List {
	var out List
	for i, w := range l.Words {
		if !keep(w) {
			continue
		}
		out.Words = append(out.Words, w)
		if l.Weights != nil {
			out.Weights = append(out.Weights, l.Weights[i])
		}
	}
	return out
}

// Load reads one word per line. A line may carry a frequency after a tab; either every line
// has one or none does.
func Load(path string) (List, error) {
	file, err := os.Open(path)
	if err != nil {
		return List{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var list List
	weighted := false
	lineNo := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		word, freq, hasFreq := strings.Cut(line, "\t")
		if len(list.Words) == 0 {
			weighted = hasFreq
		} else if hasFreq != weighted {
			return List{}, fmt.Errorf("%s:%d: frequency column must be present on every line or none", path, lineNo)
		}
		list.Words = append(list.Words, strings.TrimSpace(word))
		if !weighted {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(freq), 64)
		if err != nil || f < 0 {
			return List{}, fmt.Errorf("%s:%d: invalid frequency %q", path, lineNo, freq)
		}
		list.Weights = append(list.Weights, f)
	}
	if err := scanner.Err(); err != nil {
		return List{}, err
	}
	if len(list.Words) == 0 {
		return List{}, fmt.Errorf("word list is empty")
	}
	return list, nil
}

// Write stores a list in the format Load reads.
func Write(path string, list List) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create word list: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close word list: %w", cerr)
		}
	}()

	w := bufio.NewWriter(file)
	for i, word := range list.Words {
		if list.Weights != nil {
			_, err = fmt.Fprintf(w, "%s\t%s\n", word, strconv.FormatFloat(list.Weights[i], 'g', -1, 64))
		} else {
			_, err = fmt.Fprintln(w, word)
		}
		if err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	return w.Flush()
}
