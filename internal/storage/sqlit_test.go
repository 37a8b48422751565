package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	// schema creation is idempotent
	require.NoError(t, InitSchema(db))
	return NewStore(db)
}

func TestPriceSeries_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.LoadPriceSeries("IBM", "2010-01-01", "2010-12-31", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SavePriceSeries("IBM", "2010-01-01", "2010-12-31", []byte(`{"symbol":"IBM"}`)))
	require.NoError(t, s.SavePriceSeries("IBM", "2010-01-01", "2010-12-31", []byte(`{"symbol":"IBM","v":2}`)))

	payload, ok, err := s.LoadPriceSeries("IBM", "2010-01-01", "2010-12-31", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"symbol":"IBM","v":2}`, string(payload))

	_, ok, err = s.LoadPriceSeries("IBM", "2010-01-01", "2011-12-31", 0)
	require.NoError(t, err)
	assert.False(t, ok, "different window must miss")
}

func TestPriceSeries_Expired(t *testing.T) {
	s := newTestStore(t)
	_, err := s.db.Exec(`INSERT INTO price_series(symbol,start_day,end_day,fetched_at,payload) VALUES(?,?,?,?,?)`,
		"GS", "2010-01-01", "2010-12-31", time.Now().Add(-48*time.Hour).Unix(), []byte("{}"))
	require.NoError(t, err)

	_, ok, err := s.LoadPriceSeries("GS", "2010-01-01", "2010-12-31", 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.LoadPriceSeries("GS", "2010-01-01", "2010-12-31", 0)
	require.NoError(t, err)
	assert.True(t, ok, "maxAge <= 0 accepts any age")
}

func TestSearches_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, syms := range [][]string{{"C", "GS"}, {"IBM"}, {"AAPL", "GLD", "TLT"}} {
		id, err := s.SaveSearch(SearchRecord{
			Symbols:   syms,
			StartDay:  "2010-01-01",
			EndDay:    "2010-12-31",
			Weights:   make([]float64, len(syms)),
			Sharpe:    float64(i),
			Evaluated: i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}

	recs, err := s.RecentSearches(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"AAPL", "GLD", "TLT"}, recs[0].Symbols)
	assert.Equal(t, []float64{0, 0, 0}, recs[0].Weights)
	assert.Equal(t, 2.0, recs[0].Sharpe)
	assert.Equal(t, []string{"IBM"}, recs[1].Symbols)
	assert.True(t, recs[1].CreatedAt.Equal(base.Add(time.Minute)))

	all, err := s.RecentSearches(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveSearch_KeepsGivenID(t *testing.T) {
	s := newTestStore(t)
	id, err := s.SaveSearch(SearchRecord{ID: "fixed", Symbols: []string{"SPY"}, Weights: []float64{1}})
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)

	_, err = s.SaveSearch(SearchRecord{ID: "fixed", Symbols: []string{"SPY"}, Weights: []float64{1}})
	assert.Error(t, err, "ids are unique")
}
