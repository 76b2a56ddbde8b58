package service

import (
	"testing"
	"time"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCsv(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			"plain rows",
			"a,b,c\n1,2,3\n",
			[][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			"crlf endings",
			"a,b\r\n1,2\r\n",
			[][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			"quoted field with embedded comma",
			"name,notes\nأحمد,\"ملاحظة, مهمة\"\n",
			[][]string{{"name", "notes"}, {"أحمد", "ملاحظة, مهمة"}},
		},
		{
			"doubled quote escape",
			"a\n\"he said \"\"ok\"\"\"\n",
			[][]string{{"a"}, {`he said "ok"`}},
		},
		{
			"embedded newline inside quotes",
			"a,b\n\"line1\nline2\",x\n",
			[][]string{{"a", "b"}, {"line1\nline2", "x"}},
		},
		{
			"blank rows dropped",
			"a,b\n,\n1,2\n",
			[][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			"no trailing newline",
			"a,b\n1,2",
			[][]string{{"a", "b"}, {"1", "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCsv(tt.input))
		})
	}
}

func TestHeaderIndex(t *testing.T) {
	header := cleanHeader([]string{"\uFEFFاسم النزيل", "رقم الغرفة", "Rent"})

	assert.Equal(t, 0, headerIndex(header, "اسم النزيل", "name"))
	assert.Equal(t, 1, headerIndex(header, "رقم الغرفة", "unit"))
	// Case-insensitive match on latin headers
	assert.Equal(t, 2, headerIndex(header, "الإيجار", "rent"))
	assert.Equal(t, -1, headerIndex(header, "التأمين", "deposit"))
}

func TestCell(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "a", cell(row, 0))
	assert.Equal(t, "", cell(row, -1))
	assert.Equal(t, "", cell(row, 5))
}

func TestParseLooseNumber(t *testing.T) {
	assert.Equal(t, 1500.0, parseLooseNumber("1,500 ريال"))
	assert.Equal(t, 3000.0, parseLooseNumber("3000"))
	assert.Equal(t, 45.5, parseLooseNumber("45.5 م"))
	assert.Equal(t, 0.0, parseLooseNumber("غير معروف"))
	assert.Equal(t, 0.0, parseLooseNumber(""))

	assert.Nil(t, parseLooseInt(""))
	require.NotNil(t, parseLooseInt("الدور 3"))
	assert.Equal(t, 3, *parseLooseInt("الدور 3"))
}

func TestParseLooseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		// c is the year, a fits a month: read as M/D/Y
		{"05/03/2024", time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)},
		// a cannot be a month: read as D/M/Y
		{"13/02/2024", time.Date(2024, time.February, 13, 0, 0, 0, 0, time.UTC)},
		// a is the year: read as Y/M/D
		{"2024/02/13", time.Date(2024, time.February, 13, 0, 0, 0, 0, time.UTC)},
		{"2024-02-13", time.Date(2024, time.February, 13, 0, 0, 0, 0, time.UTC)},
		// dashes behave like slashes
		{"13-02-2024", time.Date(2024, time.February, 13, 0, 0, 0, 0, time.UTC)},
		// surrounding text and spaces are tolerated
		{" 13 / 02 / 2024 ", time.Date(2024, time.February, 13, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLooseDate(tt.input)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}

	assert.True(t, parseLooseDate("").IsZero())
	assert.True(t, parseLooseDate("بدون تاريخ").IsZero())
}

func TestNormalizeUnitStatus(t *testing.T) {
	assert.Equal(t, domain.UnitStatusAvailable, normalizeUnitStatus("متاحة"))
	assert.Equal(t, domain.UnitStatusOccupied, normalizeUnitStatus("مشغولة"))
	assert.Equal(t, domain.UnitStatusMaintenance, normalizeUnitStatus("MAINTENANCE"))
	assert.Equal(t, domain.UnitStatus(""), normalizeUnitStatus("غير معروف"))
}

func TestNormalizeRentalType(t *testing.T) {
	assert.Equal(t, domain.RentalTypeDaily, normalizeRentalType("يومي"))
	assert.Equal(t, domain.RentalTypeDaily, normalizeRentalType("إيجار يومي"))
	assert.Equal(t, domain.RentalTypeDaily, normalizeRentalType("daily"))
	assert.Equal(t, domain.RentalTypeMonthly, normalizeRentalType("شهري"))
	assert.Equal(t, domain.RentalTypeMonthly, normalizeRentalType(""))
	assert.Equal(t, domain.RentalTypeMonthly, normalizeRentalType("غير معروف"))
}

func TestNormalizeContractStatus(t *testing.T) {
	assert.Equal(t, domain.ContractStatusEnded, normalizeContractStatus("منتهي"))
	assert.Equal(t, domain.ContractStatusEnded, normalizeContractStatus("عقد منتهي"))
	assert.Equal(t, domain.ContractStatusCancelled, normalizeContractStatus("ملغي"))
	assert.Equal(t, domain.ContractStatusActive, normalizeContractStatus("ساري"))
	assert.Equal(t, domain.ContractStatusActive, normalizeContractStatus(""))
}

func TestIsPaidToken(t *testing.T) {
	assert.True(t, isPaidToken("سدد"))
	assert.True(t, isPaidToken("تم السداد"))
	assert.True(t, isPaidToken("مسدد"))
	assert.True(t, isPaidToken("PAID"))
	assert.False(t, isPaidToken("لم يدفع"))
	assert.False(t, isPaidToken(""))
}

func TestIsVacancyRow(t *testing.T) {
	assert.True(t, isVacancyRow("غرفة فاضية"))
	assert.True(t, isVacancyRow("غرفة فاضية - دور ثاني"))
	assert.False(t, isVacancyRow("أحمد العتيبي"))
}
