package region

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"aptdeals/server/internal/models"

	"golang.org/x/text/encoding/korean"
)

var (
	codeHeaders      = []string{"법정동코드", "code", "district_code"}
	nameHeaders      = []string{"법정동명", "name", "district_name"}
	statusHeaders    = []string{"폐지여부", "status"}
	abolishedHeaders = []string{"말소일자", "폐지일자", "abolished_at", "abolition_date"}
)

const abolishedStatus = "폐지"

// FileSource reads the administrative district code file published by the Ministry of
// the Interior. Tab and comma separated variants are accepted, in UTF-8 or EUC-KR.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]models.DistrictRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read district file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseDistricts(data)
}

// ParseDistricts decodes a reference file held in memory.
func ParseDistricts(data []byte) ([]models.DistrictRecord, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode EUC-KR district file: %w", err)
		}
		data = decoded
	}

	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		reader.Comma = '\t'
	}

	codeCol, nameCol, statusCol, abolishedCol := 0, 1, 2, -1
	var records []models.DistrictRecord
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse district file: %w", err)
		}

		if first {
			first = false
			if c := findColumn(row, codeHeaders); c >= 0 {
				codeCol = c
				nameCol = findColumn(row, nameHeaders)
				statusCol = findColumn(row, statusHeaders)
				abolishedCol = findColumn(row, abolishedHeaders)
				if nameCol < 0 {
					return nil, fmt.Errorf("district file has a code column but no name column")
				}
				continue
			}
		}

		code := strings.TrimSpace(field(row, codeCol))
		name := strings.TrimSpace(field(row, nameCol))
		if code == "" && name == "" {
			continue
		}

		active := true
		if strings.TrimSpace(field(row, statusCol)) == abolishedStatus {
			active = false
		}
		if strings.TrimSpace(field(row, abolishedCol)) != "" {
			active = false
		}

		records = append(records, models.DistrictRecord{Name: name, Code: code, Active: active})
	}
	return records, nil
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, n := range names {
			if strings.EqualFold(h, n) {
				return i
			}
		}
	}
	return -1
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
