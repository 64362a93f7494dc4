package region

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"aptdeals/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

const officialFile = "법정동코드\t법정동명\t폐지여부\n" +
	"1100000000\t서울특별시\t존재\n" +
	"1171000000\t서울특별시 송파구\t존재\n" +
	"1171010100\t서울특별시 송파구 잠실동\t존재\n" +
	"4173000000\t경기도 여주군\t폐지\n"

func TestParseDistrictsOfficialFormat(t *testing.T) {
	records, err := ParseDistricts([]byte(officialFile))
	require.NoError(t, err)

	assert.Equal(t, []models.DistrictRecord{
		{Name: "서울특별시", Code: "1100000000", Active: true},
		{Name: "서울특별시 송파구", Code: "1171000000", Active: true},
		{Name: "서울특별시 송파구 잠실동", Code: "1171010100", Active: true},
		{Name: "경기도 여주군", Code: "4173000000", Active: false},
	}, records)
}

func TestParseDistrictsEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(officialFile))
	require.NoError(t, err)

	records, err := ParseDistricts(encoded)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "서울특별시 송파구", records[1].Name)
}

func TestParseDistrictsAbolitionDate(t *testing.T) {
	data := "\xef\xbb\xbfcode,name,abolished_at\r\n" +
		"1171000000,Seoul Songpa-gu,\r\n" +
		"4173000000,Gyeonggi Yeoju-gun,2013-09-23\r\n"

	records, err := ParseDistricts([]byte(data))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Active)
	assert.False(t, records[1].Active)
}

func TestParseDistrictsWithoutHeader(t *testing.T) {
	data := "1171000000\t서울특별시 송파구\t존재\n\n1168000000\t서울특별시 강남구\t존재\n"

	records, err := ParseDistricts([]byte(data))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1168000000", records[1].Code)
}

func TestParseDistrictsMissingNameColumn(t *testing.T) {
	_, err := ParseDistricts([]byte("code,foo\n1171000000,bar\n"))
	assert.Error(t, err)
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "districts.txt")
	require.NoError(t, os.WriteFile(path, []byte(officialFile), 0644))

	idx := NewIndex(NewFileSource(path), newTestLogger())
	res, err := idx.Resolve(context.Background(), "Songpa")
	require.NoError(t, err)
	assert.False(t, res.Found)

	res, err = idx.Resolve(context.Background(), "송파")
	require.NoError(t, err)
	assert.Equal(t, Resolution{Code: "11710", Name: "서울특별시 송파구", Found: true}, res)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.txt")).Load(context.Background())
	assert.Error(t, err)
}
