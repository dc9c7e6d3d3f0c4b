package fptree

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// WeightSeparator splits the items of a text line from its weight.
	WeightSeparator = ":"
	commentPrefix   = "#"
)

// FpHProperties is the json line form of one weighted transaction.
type FpHProperties struct {
	Prop   []string `json:"rp"`
	Weight *int     `json:"w,omitempty"`
}

func CreateScannerFromReader(r io.Reader) *bufio.Scanner {
	const MAX_LINE_BYTES = 20 * 1024 * 1024
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MAX_LINE_BYTES)
	return scanner
}

// ReadTransactions parses one transaction per line. A line is either json
// ({"rp":["I1","I2"],"w":2}) or items separated by spaces or commas with
// an optional ":weight" suffix. Missing weights default to 1. Blank lines
// and lines starting with # are skipped.
func ReadTransactions(r io.Reader) (*TransactionSet, error) {
	ts := NewTransactionSet()
	scanner := CreateScannerFromReader(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		var items []string
		var weight int
		var err error
		if strings.HasPrefix(line, "{") {
			items, weight, err = parseJsonTrans(line)
		} else {
			items, weight, err = parseTextTrans(line)
		}
		if err != nil {
			log.WithFields(log.Fields{"line": lineNo, "err": err}).Error("Read failed")
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		ts.Add(items, weight)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan transactions")
	}
	log.Debugf("read transactions :%d distinct :%d", lineNo, ts.Len())
	return ts, nil
}

func parseJsonTrans(line string) ([]string, int, error) {
	var prop FpHProperties
	if err := json.Unmarshal([]byte(line), &prop); err != nil {
		return nil, 0, err
	}
	weight := 1
	if prop.Weight != nil {
		weight = *prop.Weight
	}
	if err := validateTrans(prop.Prop, weight); err != nil {
		return nil, 0, err
	}
	return prop.Prop, weight, nil
}

func parseTextTrans(line string) ([]string, int, error) {
	weight := 1
	if pos := strings.LastIndex(line, WeightSeparator); pos >= 0 {
		w, err := strconv.Atoi(strings.TrimSpace(line[pos+1:]))
		if err != nil {
			return nil, 0, fmt.Errorf("invalid weight %q", line[pos+1:])
		}
		weight = w
		line = line[:pos]
	}
	items := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if err := validateTrans(items, weight); err != nil {
		return nil, 0, err
	}
	return items, weight, nil
}

func validateTrans(items []string, weight int) error {
	if weight < 1 {
		return fmt.Errorf("weight %d is not positive", weight)
	}
	if len(items) == 0 {
		return fmt.Errorf("empty transaction")
	}
	for _, itm := range items {
		if itm == RootItem {
			return fmt.Errorf("empty item id")
		}
		if strings.Contains(itm, keySeparator) || strings.Contains(itm, WeightSeparator) {
			return fmt.Errorf("item %q contains a reserved character", itm)
		}
	}
	return nil
}

func ReadTransactionsFromFile(fname string) (*TransactionSet, error) {
	f, err := os.Open(fname)
	if err != nil {
		log.Errorf("error opening file:%s", fname)
		return nil, errors.Wrapf(err, "open transactions file %s", fname)
	}
	defer f.Close()
	return ReadTransactions(f)
}

// WriteItemsets writes one json line per itemset.
func WriteItemsets(w io.Writer, itemsets []Itemset) error {
	bw := bufio.NewWriter(w)
	for _, is := range itemsets {
		patternBytes, err := json.Marshal(is)
		if err != nil {
			return errors.Wrapf(err, "marshal itemset %s", is.Key())
		}
		if _, err := bw.WriteString(fmt.Sprintf("%s\n", patternBytes)); err != nil {
			log.WithFields(log.Fields{"line": string(patternBytes), "err": err}).Error("Unable to write itemset.")
			return err
		}
	}
	return bw.Flush()
}

func WriteItemsetsToFile(fname string, itemsets []Itemset) error {
	log.Infof("writting results to file :%d %s", len(itemsets), fname)
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "create results file %s", fname)
	}
	defer file.Close()
	return WriteItemsets(file, itemsets)
}

func ReadItemsets(r io.Reader) ([]Itemset, error) {
	itemsets := make([]Itemset, 0)
	scanner := CreateScannerFromReader(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var is Itemset
		if err := json.Unmarshal([]byte(line), &is); err != nil {
			log.WithFields(log.Fields{"line": line, "err": err}).Error("Read failed")
			return nil, errors.Wrap(err, "unmarshal itemset")
		}
		itemsets = append(itemsets, is)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan itemsets")
	}
	return itemsets, nil
}

func ReadItemsetsFromFile(fname string) ([]Itemset, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "open results file %s", fname)
	}
	defer f.Close()
	return ReadItemsets(f)
}
