package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, "service-token", 0, discardLogger())
}

func TestListScores(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/scores/3", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "product_id": 1, "criteria_id": 10, "score_one": 0.25, "score_two": "0.1"},
			{"id": 2, "product_id": 2, "criteria_id": 10, "score_one": 0.5, "score_two": null}
		]`))
	})

	scores, err := c.ListScores(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.Nil(t, scores[0].Score)
	require.NotNil(t, scores[0].ScoreOne)
	assert.Equal(t, 0.25, scores[0].ScoreOne.Float())
	require.NotNil(t, scores[0].ScoreTwo)
	assert.Equal(t, 0.1, scores[0].ScoreTwo.Float())
	assert.Nil(t, scores[1].ScoreTwo)
}

func TestListNonArrayBodyIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"object": `{"message": "no scores yet"}`,
		"null":   `null`,
		"empty":  ``,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			finals, err := c.ListFinalScores(context.Background(), 1)
			require.NoError(t, err)
			assert.NotNil(t, finals)
			assert.Empty(t, finals)
		})
	}
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	})

	_, err := c.ListCriteria(context.Background())
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "/criterias", se.Path)
	assert.Contains(t, se.Error(), "Unauthenticated")
}

func TestTokenPrecedence(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer service-token", got)

	_, err = c.ListProducts(WithToken(context.Background(), "caller-token"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer caller-token", got)
}

func TestCompute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scores/5/MOORA", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"ok","processingTime":"0.42 s"}`))
	})

	res, err := c.Compute(context.Background(), 5, "MOORA")
	require.NoError(t, err)
	assert.Equal(t, "0.42 s", res.ProcessingTime)
}

func TestCriteriaScoreCommands(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/criteria_scores", r.URL.Path)
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, c.ComputeCriteriaScores(context.Background()))
	require.NoError(t, c.RecomputeCriteriaScores(context.Background()))
	assert.Equal(t, []string{http.MethodPost, http.MethodPut}, methods)
}

func TestReportSendsPeriod(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reports/2", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "2024-03", r.FormValue("period"))
		_, _ = w.Write([]byte(`[{"final_score": "0.8", "product": {"id": 1, "name": "Pen"}}]`))
	})

	rows, err := c.Report(context.Background(), 2, "2024-03")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.8, rows[0].FinalScore.Float())
	assert.Equal(t, "Pen", rows[0].Product.Name)
}

func TestNameTables(t *testing.T) {
	criteria := CriteriaNames([]Criterion{{ID: 10, Name: "ROI"}, {ID: 11, Name: "Margin"}})
	products := ProductNames(nil)

	name, ok := criteria.Name(11)
	assert.True(t, ok)
	assert.Equal(t, "Margin", name)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestDecimalRejectsGarbage(t *testing.T) {
	var d Decimal
	assert.Error(t, d.UnmarshalJSON([]byte(`"abc"`)))
	assert.NoError(t, d.UnmarshalJSON([]byte(`"12.5"`)))
	assert.Equal(t, 12.5, d.Float())
}

func TestDecimalNonFinite(t *testing.T) {
	var d Decimal
	require.NoError(t, d.UnmarshalJSON([]byte(`"NaN"`)))
	assert.True(t, math.IsNaN(d.Float()))

	data, err := json.Marshal(struct {
		A Decimal `json:"a"`
		B Decimal `json:"b"`
		C Decimal `json:"c"`
	}{d, Decimal(math.Inf(-1)), 0.25})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":null,"c":0.25}`, string(data))
}
