package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gopix/internal/grid"
)

func TestReadCell_NormalizesSentinelAndColor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pixel" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("x") != "-5" || r.URL.Query().Get("y") != "7" {
			t.Fatalf("query = %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(cellPayload{
			Owner:   grid.ZeroAddress,
			Color:   [3]uint8{255, 255, 255},
			Price:   10_000,
			Deposit: 42, // must be dropped with the sentinel owner
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	cell, err := c.ReadCell(context.Background(), -5, 7)
	if err != nil {
		t.Fatalf("ReadCell: %v", err)
	}
	if !cell.Unowned() {
		t.Fatalf("zero address should normalize to unowned: %+v", cell)
	}
	if cell.Deposit != 0 || cell.TermBeginAt != 0 {
		t.Fatalf("unowned cell must have zero deposit and term: %+v", cell)
	}
	if cell.Color != grid.White {
		t.Fatalf("color = %v", cell.Color)
	}
	if cell.Price != 10_000 {
		t.Fatalf("price = %d", cell.Price)
	}
}

func TestReadChunk_ColumnMajorToRowMajor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 2 columns x 3 rows; tag each cell's price with 10*i + j.
		cols := make([][]cellPayload, 2)
		for i := range cols {
			cols[i] = make([]cellPayload, 3)
			for j := range cols[i] {
				cols[i][j] = cellPayload{Owner: "o", Price: uint64(10*i + j)}
			}
		}
		json.NewEncoder(w).Encode(cols)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	cells, err := c.ReadChunk(context.Background(), 0, 0, 2, 3)
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if len(cells) != 6 {
		t.Fatalf("len = %d", len(cells))
	}
	// Row-major: index j*width+i.
	if cells[0].Price != 0 || cells[1].Price != 10 {
		t.Fatalf("row 0 = %d,%d", cells[0].Price, cells[1].Price)
	}
	if cells[4].Price != 2 || cells[5].Price != 12 {
		t.Fatalf("row 2 = %d,%d", cells[4].Price, cells[5].Price)
	}
}

func TestReadChunk_ShapeMismatchRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]cellPayload{{{Owner: "o"}}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	if _, err := c.ReadChunk(context.Background(), 0, 0, 2, 3); err == nil {
		t.Fatalf("expected shape mismatch error")
	}
}

func TestReadParams(t *testing.T) {
	values := map[string]uint64{
		"/api/mint-fee":     10_000,
		"/api/tax-per-day":  1_750,
		"/api/total-pixels": 90,
		"/api/max-pixels":   100,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := values[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]uint64{"value": v})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	p, err := c.ReadParams(context.Background())
	if err != nil {
		t.Fatalf("ReadParams: %v", err)
	}
	want := Params{MintFee: 10_000, TaxPerDay: 1_750, TotalPixels: 90, MaxPixels: 100}
	if p != want {
		t.Fatalf("params = %+v, want %+v", p, want)
	}
}

func TestMint_PostsPaymentAndEncodedColor(t *testing.T) {
	var got intentPayload
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode intent: %v", err)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	err := c.Mint(context.Background(), Intent{
		X: 1, Y: 2,
		Color:    grid.Color{1, 0, 0},
		TermDays: 10,
		Price:    2_000_000,
		Payment:  45_000,
	})
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if path != "/wallet/mint" {
		t.Fatalf("path = %s", path)
	}
	if got.Color != [3]uint8{255, 0, 0} {
		t.Fatalf("color = %v", got.Color)
	}
	if got.Payment != 45_000 || got.Price != 2_000_000 || got.TermDays != 10 {
		t.Fatalf("intent = %+v", got)
	}
}

func TestWrite_RejectionSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient funds", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	err := c.Buy(context.Background(), Intent{X: 1, Y: 2, Payment: 5})
	if err == nil {
		t.Fatalf("expected rejection error")
	}
}

func TestCalcDeposit(t *testing.T) {
	if got := CalcDeposit(30, 1_000_000, 1_750); got != 52_500 {
		t.Fatalf("deposit = %d, want 52500", got)
	}
	if got := CalcDeposit(0, 1_000_000, 1_750); got != 0 {
		t.Fatalf("zero term deposit = %d", got)
	}
}
