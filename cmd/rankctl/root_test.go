package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	reply := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "Bearer expired" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}
	mux.HandleFunc("GET /criterias", reply(`[{"id": 10, "name": "ROI", "weight": 0.5}, {"id": 11, "name": "Margin", "weight": 0.5}]`))
	mux.HandleFunc("GET /products", reply(`[{"id": 1, "name": "Pen"}, {"id": 2, "name": "Notebook"}]`))
	mux.HandleFunc("GET /methods", reply(`[{"id": 1, "name": "SMART"}, {"id": 2, "name": "MOORA"}]`))
	mux.HandleFunc("GET /scores/1", reply(`[
		{"product_id": 1, "criteria_id": 10, "score_one": 0.25, "score_two": 0.1},
		{"product_id": 1, "criteria_id": 11, "score_one": 0.75, "score_two": 0.3},
		{"product_id": 2, "criteria_id": 10, "score_one": 0.5, "score_two": 0.2}
	]`))
	mux.HandleFunc("GET /final_scores/1", reply(`[
		{"product_id": 1, "final_score": "0.31", "created_at": "2024-03-01T10:00:00Z"},
		{"product_id": 2, "final_score": "0.42", "created_at": "2024-03-01T10:00:00Z"},
		{"product_id": 1, "final_score": "0.99", "created_at": "2024-03-02T10:00:00Z"}
	]`))
	mux.HandleFunc("POST /reports/1", reply(`[{"final_score": "0.42", "product": {"id": 2, "name": "Notebook", "unit": "pcs"}}]`))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	srv := fakeBackend(t)
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--backend-url", srv.URL}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestScoresCSV(t *testing.T) {
	out, err := run(t, "scores", "1", "-o", "csv")
	require.NoError(t, err)

	expected := "ID,Product,ROI (1),ROI (2),Margin (1),Margin (2)\n" +
		"1,Pen,0.25,0.1,0.75,0.3\n" +
		"2,Notebook,0.5,0.2,,\n"
	assert.Equal(t, expected, out)
}

func TestScoresSinglePhase(t *testing.T) {
	out, err := run(t, "scores", "1", "--phase", "one", "-o", "csv")
	require.NoError(t, err)

	assert.Equal(t, "ID,Product,ROI (1),Margin (1)\n1,Pen,0.25,0.75\n2,Notebook,0.5,\n", out)
}

func TestRankingDuplicates(t *testing.T) {
	out, err := run(t, "ranking", "1", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Rank,ID,Product,Final Score\n1,2,Notebook,0.42\n2,1,Pen,0.31\n", out)

	out, err = run(t, "ranking", "1", "--duplicates", "latest", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Rank,ID,Product,Final Score\n1,1,Pen,0.99\n2,2,Notebook,0.42\n", out)

	_, err = run(t, "ranking", "1", "--duplicates", "sum")
	assert.Error(t, err)
}

func TestReportRequiresPeriod(t *testing.T) {
	_, err := run(t, "report", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period")

	out, err := run(t, "report", "1", "--period", "2024-03", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Rank,Product,Unit,Final Score\n1,Notebook,pcs,0.42\n", out)
}

func TestMethodsTable(t *testing.T) {
	out, err := run(t, "methods")
	require.NoError(t, err)
	assert.Contains(t, out, "SMART")
	assert.Contains(t, out, "MOORA")
}

func TestBadArguments(t *testing.T) {
	_, err := run(t, "scores", "zero")
	assert.Error(t, err)

	_, err = run(t, "scores", "1", "-o", "xml")
	assert.Error(t, err)

	_, err = run(t, "scores", "1", "--token", "expired")
	assert.Error(t, err)
}
