package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetricFamily は名前が一致するメトリクスファミリーを返す。
func findMetricFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

// labelValue はメトリクスから指定ラベルの値を返す。
func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestNewCollector_DoubleRegisterPanics は同じレジストリへの二重登録がpanicすることを検証する。
func TestNewCollector_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	_ = NewCollector(reg)
}

// TestRecordHTTPRequest_IncrementsCounter はHTTPリクエストカウンタがラベル別に増加することを検証する。
func TestRecordHTTPRequest_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest("GET", "/api/personas/{id}", 200, 15*time.Millisecond)
	c.RecordHTTPRequest("GET", "/api/personas/{id}", 200, 20*time.Millisecond)
	c.RecordHTTPRequest("GET", "/api/personas/{id}", 404, 5*time.Millisecond)

	mf := findMetricFamily(t, reg, "anbu_http_requests_total")
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 label sets, got %d", len(mf.GetMetric()))
	}
	for _, m := range mf.GetMetric() {
		want := 1.0
		if labelValue(m, "status") == "200" {
			want = 2
		}
		if got := m.GetCounter().GetValue(); got != want {
			t.Errorf("status=%s count = %v, want %v", labelValue(m, "status"), got, want)
		}
		if route := labelValue(m, "route"); route != "/api/personas/{id}" {
			t.Errorf("route = %q, want pattern", route)
		}
	}

	hist := findMetricFamily(t, reg, "anbu_http_request_duration_seconds")
	if got := hist.GetMetric()[0].GetHistogram().GetSampleCount(); got != 3 {
		t.Errorf("duration sample count = %d, want 3", got)
	}
}

// TestRecordAuthEvent_IncrementsCounter は認証イベントカウンタが増加することを検証する。
func TestRecordAuthEvent_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthEvent("login", "success")
	c.RecordAuthEvent("login", "invalid_credentials")
	c.RecordAuthEvent("login", "success")

	mf := findMetricFamily(t, reg, "anbu_auth_events_total")
	for _, m := range mf.GetMetric() {
		if labelValue(m, "event") != "login" {
			t.Errorf("event = %q, want login", labelValue(m, "event"))
		}
		want := 1.0
		if labelValue(m, "result") == "success" {
			want = 2
		}
		if got := m.GetCounter().GetValue(); got != want {
			t.Errorf("result=%s count = %v, want %v", labelValue(m, "result"), got, want)
		}
	}
}

// TestRecordRadar_ObservesHistogram はレーダー集計のカテゴリ数が記録されることを検証する。
func TestRecordRadar_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRadar(0)
	c.RecordRadar(5)

	mf := findMetricFamily(t, reg, "anbu_radar_categories")
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 2 {
		t.Errorf("sample count = %d, want 2", h.GetSampleCount())
	}
	if h.GetSampleSum() != 5 {
		t.Errorf("sample sum = %v, want 5", h.GetSampleSum())
	}
}
