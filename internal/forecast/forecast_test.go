package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	base := Params{CurrentValue: 100, MonthlyInvestment: 10, AnnualRate: 0.05, TimeHorizonYears: 10}

	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"valid", func(*Params) {}, false},
		{"negative current", func(p *Params) { p.CurrentValue = -1 }, true},
		{"negative monthly", func(p *Params) { p.MonthlyInvestment = -1 }, true},
		{"rate too low", func(p *Params) { p.AnnualRate = -0.51 }, true},
		{"rate lower bound", func(p *Params) { p.AnnualRate = -0.5 }, false},
		{"rate upper bound", func(p *Params) { p.AnnualRate = 1.0 }, false},
		{"rate too high", func(p *Params) { p.AnnualRate = 1.01 }, true},
		{"zero years", func(p *Params) { p.TimeHorizonYears = 0 }, true},
		{"fifty years", func(p *Params) { p.TimeHorizonYears = 50 }, false},
		{"fifty-one years", func(p *Params) { p.TimeHorizonYears = 51 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() error = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestCalculateZeroRate(t *testing.T) {
	res, err := Calculate(Params{CurrentValue: 100000, MonthlyInvestment: 10000, AnnualRate: 0, TimeHorizonYears: 2, CurrentAge: 30})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	want := []Point{
		{Month: 0, Year: 0, Age: 30, Value: 100000, CurrentAmount: 100000},
		{Month: 12, Year: 1, Age: 31, Value: 220000, CurrentAmount: 100000, Contributions: 120000},
		{Month: 24, Year: 2, Age: 32, Value: 340000, CurrentAmount: 100000, Contributions: 240000},
	}
	if len(res.Data) != len(want) {
		t.Fatalf("len(Data) = %d, want %d", len(res.Data), len(want))
	}
	for i := range want {
		if res.Data[i] != want[i] {
			t.Errorf("Data[%d] = %+v, want %+v", i, res.Data[i], want[i])
		}
	}

	s := res.Summary
	if s.InitialValue != 100000 || s.FinalValue != 340000 || s.TotalContributions != 240000 || s.TotalGains != 0 {
		t.Errorf("Summary = %+v", s)
	}
	if math.Abs(s.EffectiveAnnualRate-(math.Sqrt(3.4)-1)) > 1e-12 {
		t.Errorf("EffectiveAnnualRate = %v, want %v", s.EffectiveAnnualRate, math.Sqrt(3.4)-1)
	}
}

func TestCalculateCompounding(t *testing.T) {
	res, err := Calculate(Params{CurrentValue: 1000, AnnualRate: 0.12, TimeHorizonYears: 1})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	// 1000 * 1.01^12 = 1126.825...
	last := res.Data[1]
	if last.Value != 1127 || last.Gains != 127 {
		t.Errorf("year 1 = %+v, want value 1127 gains 127", last)
	}
}

func TestCalculateContributionBeforeGrowth(t *testing.T) {
	res, err := Calculate(Params{MonthlyInvestment: 100, AnnualRate: 0.12, TimeHorizonYears: 1})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	// Annuity due: 100 * 1.01 * (1.01^12 - 1) / 0.01 = 1280.93
	if got := res.Data[1].Value; got != 1281 {
		t.Errorf("value = %d, want 1281", got)
	}
	if res.Summary.EffectiveAnnualRate != 0 {
		t.Errorf("EffectiveAnnualRate = %v, want 0 without an initial value", res.Summary.EffectiveAnnualRate)
	}
}

func TestCalculateLongHorizon(t *testing.T) {
	res, err := Calculate(Params{CurrentValue: 5_000_000, MonthlyInvestment: 50_000, AnnualRate: 0.05, TimeHorizonYears: 50})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(res.Data) != 51 {
		t.Fatalf("len(Data) = %d, want 51", len(res.Data))
	}
	for i := 1; i < len(res.Data); i++ {
		if res.Data[i].Value <= res.Data[i-1].Value {
			t.Fatalf("value did not grow at year %d", i)
		}
	}
}

func TestCalculateRejectsInvalid(t *testing.T) {
	if _, err := Calculate(Params{TimeHorizonYears: 0}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Calculate() error = %v, want ErrInvalidParams", err)
	}
}

func localJSON(t *testing.T, p Params) []byte {
	t.Helper()
	res, err := Calculate(p)
	if err != nil {
		t.Fatal(err)
	}
	out, _ := json.Marshal(map[string]any{"success": true, "data": res.Data, "summary": res.Summary})
	return out
}

func TestRemoteClient(t *testing.T) {
	params := Params{CurrentValue: 1000, MonthlyInvestment: 100, AnnualRate: 0.05, TimeHorizonYears: 3}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/functions/v1/forecast" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		var got Params
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil || got != params {
			t.Errorf("body = %+v, err %v", got, err)
		}
		w.Write(localJSON(t, params))
	}))
	defer srv.Close()

	res, err := NewRemoteClient(srv.URL+"/", "secret", 0, time.Second).Forecast(context.Background(), params)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(res.Data) != 4 {
		t.Errorf("len(Data) = %d, want 4", len(res.Data))
	}
}

func TestRemoteClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"success":false}`},
		{"bad request", http.StatusBadRequest, `{"success":false,"error":"bad"}`},
		{"unsuccessful", http.StatusOK, `{"success":false,"error":"nope"}`},
		{"not json", http.StatusOK, `<html>`},
		{"missing summary", http.StatusOK, `{"success":true,"data":[{"month":0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRemoteClient(srv.URL, "", 0, time.Second).
				Forecast(context.Background(), Params{TimeHorizonYears: 1})
			if err == nil {
				t.Error("Forecast() error = nil, want error")
			}
		})
	}
}

type failing struct{ calls atomic.Int32 }

func (f *failing) Forecast(context.Context, Params) (Result, error) {
	f.calls.Add(1)
	return Result{}, errors.New("unreachable")
}

func TestFallback(t *testing.T) {
	primary := &failing{}
	f := Fallback{Primary: primary, Secondary: Local{}}

	res, err := f.Forecast(context.Background(), Params{CurrentValue: 100, TimeHorizonYears: 1})
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if primary.calls.Load() != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls.Load())
	}
	if res.Summary.FinalValue != 100 {
		t.Errorf("FinalValue = %d, want 100", res.Summary.FinalValue)
	}

	if _, err := f.Forecast(context.Background(), Params{TimeHorizonYears: 99}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Forecast(invalid) error = %v, want ErrInvalidParams", err)
	}
	if primary.calls.Load() != 1 {
		t.Error("invalid params reached the primary forecaster")
	}
}

func TestNew(t *testing.T) {
	if _, ok := New("", "", 3, time.Second).(Local); !ok {
		t.Error("New(\"\") is not Local")
	}
	if _, ok := New("http://example.invalid", "", 3, time.Second).(Fallback); !ok {
		t.Error("New(url) is not Fallback")
	}
}
