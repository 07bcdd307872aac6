package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/Rankboard/internal/lookup"
)

// Decimal is a float that also accepts numeric strings on decode. The
// backend serializes some decimal columns (final_score in particular) as
// strings.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*d = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("decimal %q: %w", s, err)
		}
		*d = Decimal(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Decimal(v)
	return nil
}

// MarshalJSON writes NaN and ±Inf as null, which encoding/json cannot
// represent otherwise.
func (d Decimal) MarshalJSON() ([]byte, error) {
	v := float64(d)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Float returns d as a float64.
func (d Decimal) Float() float64 { return float64(d) }

type CriterionType string

const (
	CriterionBenefit CriterionType = "benefit"
	CriterionCost    CriterionType = "cost"
)

type Criterion struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Weight Decimal       `json:"weight"`
	Type   CriterionType `json:"type"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PurchaseCost Decimal   `json:"purchase_cost"`
	PriceSale    Decimal   `json:"price_sale"`
	Profit       Decimal   `json:"profit,omitempty"`
	Unit         string    `json:"unit"`
	Stock        int64     `json:"stock"`
	Sold         int64     `json:"sold"`
	CategoryID   int64     `json:"category_id,omitempty"`
	Category     *Category `json:"category,omitempty"`
}

type Method struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ScoreRecord is one product x criterion cell. Which score fields are set
// depends on the computation phase: criterion scores carry Score, SMART and
// MOORA runs carry ScoreOne and ScoreTwo.
type ScoreRecord struct {
	ID         int64    `json:"id,omitempty"`
	ProductID  int64    `json:"product_id"`
	CriteriaID int64    `json:"criteria_id"`
	Score      *Decimal `json:"score,omitempty"`
	ScoreOne   *Decimal `json:"score_one,omitempty"`
	ScoreTwo   *Decimal `json:"score_two,omitempty"`
}

type FinalScoreRecord struct {
	ID         int64     `json:"id,omitempty"`
	ProductID  int64     `json:"product_id"`
	FinalScore Decimal   `json:"final_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// ComputeResult is the backend's reply to a SMART/MOORA computation.
type ComputeResult struct {
	Message        string `json:"message,omitempty"`
	ProcessingTime string `json:"processingTime"`
}

// ReportRow is one product line in a period report.
type ReportRow struct {
	FinalScore Decimal `json:"final_score"`
	Period     string  `json:"period,omitempty"`
	Product    Product `json:"product"`
}

// CriteriaNames indexes criteria by id.
func CriteriaNames(criteria []Criterion) lookup.Index {
	return lookup.Build(criteria,
		func(c Criterion) int64 { return c.ID },
		func(c Criterion) string { return c.Name })
}

// ProductNames indexes products by id.
func ProductNames(products []Product) lookup.Index {
	return lookup.Build(products,
		func(p Product) int64 { return p.ID },
		func(p Product) string { return p.Name })
}
