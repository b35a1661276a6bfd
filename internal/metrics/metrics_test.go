package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordBillCreated(t *testing.T) {
	created := counterValue(t, BillsCreatedTotal.WithLabelValues("equal"))
	completed := counterValue(t, BillsCompletedTotal)

	RecordBillCreated("equal", true)

	assert.Equal(t, created+1, counterValue(t, BillsCreatedTotal.WithLabelValues("equal")))
	assert.Equal(t, completed+1, counterValue(t, BillsCompletedTotal))
}

func TestRecordTransition_WithoutCompletion(t *testing.T) {
	completed := counterValue(t, BillsCompletedTotal)
	before := counterValue(t, TransitionsTotal.WithLabelValues("report_paid"))

	RecordTransition("report_paid", false)

	assert.Equal(t, before+1, counterValue(t, TransitionsTotal.WithLabelValues("report_paid")))
	assert.Equal(t, completed, counterValue(t, BillsCompletedTotal))
}

func TestRecordDenial(t *testing.T) {
	before := counterValue(t, DenialsTotal.WithLabelValues("not_creator"))
	RecordDenial("not_creator")
	assert.Equal(t, before+1, counterValue(t, DenialsTotal.WithLabelValues("not_creator")))
}
