package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/David-Botos/data-quality/pkg/model"
)

func TestKindFromWarehouseType(t *testing.T) {
	testCases := []struct {
		input    string
		expected model.ColumnKind
		known    bool
	}{
		{"NUMBER(38,0)", model.KindInteger, true},
		{"NUMBER(4)", model.KindInteger, true},
		{"number(10, 2)", model.KindNumeric, true},
		{"NUMBER", model.KindNumeric, true},
		{"FLOAT", model.KindNumeric, true},
		{"BIGINT", model.KindInteger, true},
		{"VARCHAR(16777216)", model.KindText, true},
		{"VARIANT", model.KindText, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			kind, known := KindFromWarehouseType(tc.input)
			assert.Equal(t, tc.expected, kind)
			assert.Equal(t, tc.known, known)
		})
	}
}

func TestColumnDefinitions(t *testing.T) {
	schema := model.Schema{Columns: []model.Column{
		{Name: "year", Kind: model.KindInteger},
		{Name: "TMAX", Kind: model.KindNumeric},
		{Name: "city name", Kind: model.KindText},
	}}

	assert.Equal(t, []string{
		`"year" BIGINT`,
		`"TMAX" DOUBLE PRECISION`,
		`"city name" TEXT`,
	}, ColumnDefinitions(schema))
}

func TestSQLValue(t *testing.T) {
	assert.Nil(t, SQLValue(model.Missing(), model.KindNumeric))
	assert.Equal(t, int64(2020), SQLValue(model.Number(2020), model.KindInteger))
	assert.Equal(t, 3.5, SQLValue(model.Number(3.5), model.KindNumeric))
	assert.Equal(t, "boston", SQLValue(model.Text("boston"), model.KindText))
}
