package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
	"github.com/MikeSquared-Agency/Rankboard/internal/lookup"
)

// Variant names which score field of a ScoreRecord a column carries.
type Variant string

const (
	VariantScore    Variant = ""
	VariantScoreOne Variant = "score_one"
	VariantScoreTwo Variant = "score_two"
)

var variantOrder = []Variant{VariantScore, VariantScoreOne, VariantScoreTwo}

// ParseVariant maps the short CLI/query forms ("", "one", "two") and the full
// field suffixes onto a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "score":
		return VariantScore, nil
	case "one", "score_one":
		return VariantScoreOne, nil
	case "two", "score_two":
		return VariantScoreTwo, nil
	}
	return "", fmt.Errorf("unknown score variant %q", s)
}

// Column identifies one dynamic cell of a pivoted row.
type Column struct {
	CriterionID int64
	Variant     Variant
}

const columnPrefix = "criteria_"

// Key is the flat field name used on the wire: criteria_<id> or
// criteria_<id>_<variant>.
func (c Column) Key() string {
	k := columnPrefix + strconv.FormatInt(c.CriterionID, 10)
	if c.Variant != VariantScore {
		k += "_" + string(c.Variant)
	}
	return k
}

func parseColumnKey(key string) (Column, bool) {
	rest, ok := strings.CutPrefix(key, columnPrefix)
	if !ok {
		return Column{}, false
	}
	idPart, variant, _ := strings.Cut(rest, "_")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return Column{}, false
	}
	// Wire suffixes only; the short CLI forms are not column keys.
	switch v := Variant(variant); v {
	case VariantScore, VariantScoreOne, VariantScoreTwo:
		return Column{CriterionID: id, Variant: v}, true
	}
	return Column{}, false
}

// PivotedRow is one product in the wide table. Values is sparse: a missing
// column means "no data", not zero.
type PivotedRow struct {
	ID     int64
	Name   string
	Values map[Column]string
}

// Value returns the formatted cell for a criterion and variant.
func (r PivotedRow) Value(criterionID int64, v Variant) (string, bool) {
	s, ok := r.Values[Column{CriterionID: criterionID, Variant: v}]
	return s, ok
}

func (r PivotedRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(r.Values)+2)
	for c, v := range r.Values {
		flat[c.Key()] = v
	}
	flat["id"] = r.ID
	flat["name"] = r.Name
	return json.Marshal(flat)
}

func (r *PivotedRow) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	*r = PivotedRow{Values: make(map[Column]string)}
	for k, raw := range flat {
		switch k {
		case "id":
			if err := json.Unmarshal(raw, &r.ID); err != nil {
				return fmt.Errorf("row id: %w", err)
			}
		case "name":
			if err := json.Unmarshal(raw, &r.Name); err != nil {
				return fmt.Errorf("row name: %w", err)
			}
		default:
			col, ok := parseColumnKey(k)
			if !ok {
				continue
			}
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("row %s: %w", k, err)
			}
			r.Values[col] = v
		}
	}
	return nil
}

// PivotTable is the wide view of a score record set. Columns lists the
// distinct criterion ids in order of first appearance.
type PivotTable struct {
	Rows    []PivotedRow `json:"rows"`
	Columns []int64      `json:"columns"`
}

// Pivot turns flat product x criterion records into one row per product.
// Rows follow the order in which product ids first appear; every score
// variant present on a record becomes its own column. Products missing from
// productNames are labelled "Product <id>".
func Pivot(scores []backend.ScoreRecord, productNames lookup.Index) PivotTable {
	table := PivotTable{
		Rows:    []PivotedRow{},
		Columns: []int64{},
	}
	rowIndex := make(map[int64]int)
	seenCriteria := make(map[int64]bool)

	for _, s := range scores {
		i, ok := rowIndex[s.ProductID]
		if !ok {
			i = len(table.Rows)
			rowIndex[s.ProductID] = i
			table.Rows = append(table.Rows, PivotedRow{
				ID:     s.ProductID,
				Name:   productNames.Label(s.ProductID, lookup.KindProduct),
				Values: make(map[Column]string),
			})
		}
		row := &table.Rows[i]
		setCell(row, s.CriteriaID, VariantScore, s.Score)
		setCell(row, s.CriteriaID, VariantScoreOne, s.ScoreOne)
		setCell(row, s.CriteriaID, VariantScoreTwo, s.ScoreTwo)

		if !seenCriteria[s.CriteriaID] {
			seenCriteria[s.CriteriaID] = true
			table.Columns = append(table.Columns, s.CriteriaID)
		}
	}
	return table
}

func setCell(row *PivotedRow, criterionID int64, v Variant, score *backend.Decimal) {
	if score == nil {
		return
	}
	row.Values[Column{CriterionID: criterionID, Variant: v}] = FormatScore(score.Float())
}

// Variants reports which score variants occur anywhere in the table, in
// score, score_one, score_two order.
func (t PivotTable) Variants() []Variant {
	present := make(map[Variant]bool)
	for _, r := range t.Rows {
		for c := range r.Values {
			present[c.Variant] = true
		}
	}
	var out []Variant
	for _, v := range variantOrder {
		if present[v] {
			out = append(out, v)
		}
	}
	return out
}

// ColumnHeader labels one criterion column for rendering.
type ColumnHeader struct {
	CriterionID int64  `json:"criteria_id"`
	Label       string `json:"label"`
}

// Headers resolves the table's columns through criteriaNames, falling back
// to "Criteria <id>".
func (t PivotTable) Headers(criteriaNames lookup.Index) []ColumnHeader {
	headers := make([]ColumnHeader, 0, len(t.Columns))
	for _, id := range t.Columns {
		headers = append(headers, ColumnHeader{
			CriterionID: id,
			Label:       criteriaNames.Label(id, lookup.KindCriteria),
		})
	}
	return headers
}
