package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{name: "thai currency word", raw: "15,000 บาท", want: 15000, wantOK: true},
		{name: "plain integer", raw: "21500", want: 21500, wantOK: true},
		{name: "decimal", raw: "18,500.50", want: 18500.5, wantOK: true},
		{name: "per semester", raw: "ค่าเล่าเรียน 25,000 บาทต่อภาคการศึกษา", want: 25000, wantOK: true},
		{name: "slash term", raw: "19,000 บาท/เทอม", want: 19000, wantOK: true},
		{name: "english", raw: "THB 30,000 per semester", want: 30000, wantOK: true},
		{name: "baht sign", raw: "฿12,000", want: 12000, wantOK: true},
		{name: "link", raw: "https://example.edu/fees", wantOK: false},
		{name: "see website", raw: "ดูรายละเอียดที่เว็บไซต์คณะ", wantOK: false},
		{name: "two amounts", raw: "ภาคต้น 20,000 บาท ภาคปลาย 18,000 บาท", wantOK: false},
		{name: "range", raw: "15,000-20,000 บาท", wantOK: false},
		{name: "empty", raw: "", wantOK: false},
		{name: "negative", raw: "-5000", wantOK: false},
		{name: "two bare amounts", raw: "20,000 บาท 18,000 บาท", wantOK: false},
		{name: "space separated digits", raw: "1 2", wantOK: false},
		{name: "short comma groups", raw: "1,2,3", wantOK: false},
		{name: "millions", raw: "1,250,000 บาท", want: 1250000, wantOK: true},
		{name: "label with colon", raw: "ค่าใช้จ่าย: 21,000 บาท/ภาคการศึกษา", want: 21000, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseIsIdempotent(t *testing.T) {
	for _, raw := range []string{"15,000 บาท", "21500", "32,000 บาทต่อภาคการศึกษา"} {
		v, ok := Parse(raw)
		assert.True(t, ok, raw)

		again, ok := Parse(Format(v))
		assert.True(t, ok, raw)
		assert.Equal(t, v, again, raw)
	}
}

func TestIsLink(t *testing.T) {
	assert.True(t, IsLink("https://example.edu/fees"))
	assert.False(t, IsLink("ดูที่ https://example.edu/fees"))
	assert.False(t, IsLink("15,000 บาท"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "15,000 บาท", Format(15000))
	assert.Equal(t, "1,250,000 บาท", Format(1250000))
}

func TestBandIndexBoundaries(t *testing.T) {
	tests := []struct {
		fee  float64
		want string
	}{
		{0, "<10k"},
		{9999.99, "<10k"},
		{10000, "10k-12k"},
		{14999, "12k-15k"},
		{15000, "15k-20k"},
		{20000, "20k-30k"},
		{30000, "30k+"},
		{250000, "30k+"},
	}
	for _, tt := range tests {
		i := BandIndex(DefaultBands, tt.fee)
		if assert.GreaterOrEqual(t, i, 0, "fee %v", tt.fee) {
			assert.Equal(t, tt.want, DefaultBands[i].Label, "fee %v", tt.fee)
		}
	}
	assert.Equal(t, -1, BandIndex(DefaultBands, -1))
}
