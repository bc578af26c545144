package htmlreader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tcas-fee-crawler/internal/entity"
)

func openFixture(t *testing.T, name string) *MyTCASReader {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	r, err := FromReader(f)
	require.NoError(t, err)
	return r
}

func TestMyTCASReaderFullPage(t *testing.T) {
	r := openFixture(t, "program_full.html")

	assert.Equal(t, entity.Some("จุฬาลงกรณ์มหาวิทยาลัย"), r.InstitutionName())
	assert.Equal(t, entity.Some("หลักสูตรวิศวกรรมศาสตรบัณฑิต สาขาวิชาวิศวกรรมคอมพิวเตอร์"), r.ProgramName())
	assert.Equal(t, entity.Some("วิทยาเขตหลัก"), r.Campus())
	assert.Equal(t, entity.Some("21,000 บาท"), r.TuitionFee())
}

func TestMyTCASReaderMissingCampus(t *testing.T) {
	r := openFixture(t, "program_no_campus.html")

	assert.False(t, r.Campus().Present())
	assert.Equal(t, "campus not found", r.Campus().Display(entity.FieldCampus))
	assert.Equal(t, entity.Some("https://www.kmutt.ac.th/fees"), r.TuitionFee())
	assert.True(t, r.InstitutionName().Present())
}

func TestMyTCASReaderEmptyPage(t *testing.T) {
	r := openFixture(t, "program_empty.html")

	assert.False(t, r.InstitutionName().Present())
	assert.False(t, r.ProgramName().Present())
	assert.False(t, r.Campus().Present())
	assert.False(t, r.TuitionFee().Present())
}

func TestDefinitionSkipsNonDefinitionSiblings(t *testing.T) {
	r, err := FromHTML(`<dl><dt> ค่าใช้จ่าย </dt><span>*</span><dd>18,000 บาท</dd></dl>`)
	require.NoError(t, err)
	assert.Equal(t, entity.Some("18,000 บาท"), r.TuitionFee())
}

func TestDefinitionRequiresWholeLabel(t *testing.T) {
	r, err := FromHTML(`<dl><dt>ค่าใช้จ่ายอื่น ๆ</dt><dd>500 บาท</dd></dl>`)
	require.NoError(t, err)
	assert.False(t, r.TuitionFee().Present())
}
