package fetcher

import (
	"encoding/xml"
	"strings"

	"aptdeals/server/internal/normalize"
)

// rtmsResponse covers both the RTMS envelope and the gateway error document
// (OpenAPI_ServiceResponse) returned for key or quota problems.
type rtmsResponse struct {
	XMLName xml.Name
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []rtmsItem `xml:"item"`
		} `xml:"items"`
		NumOfRows  int `xml:"numOfRows"`
		PageNo     int `xml:"pageNo"`
		TotalCount int `xml:"totalCount"`
	} `xml:"body"`
	CmmMsgHeader struct {
		ErrMsg           string `xml:"errMsg"`
		ReturnAuthMsg    string `xml:"returnAuthMsg"`
		ReturnReasonCode string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

type rtmsItem struct {
	Fields []rtmsField `xml:",any"`
}

type rtmsField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// row flattens an <item>; tags with no text are left out.
func (i rtmsItem) row() normalize.Row {
	row := make(normalize.Row, len(i.Fields))
	for _, f := range i.Fields {
		v := strings.TrimSpace(f.Value)
		if v == "" {
			continue
		}
		row[f.XMLName.Local] = v
	}
	return row
}

func (r *rtmsResponse) gatewayError() string {
	if r.XMLName.Local != "OpenAPI_ServiceResponse" && r.CmmMsgHeader.ReturnAuthMsg == "" {
		return ""
	}
	msg := r.CmmMsgHeader.ReturnAuthMsg
	if msg == "" {
		msg = r.CmmMsgHeader.ErrMsg
	}
	if r.CmmMsgHeader.ReturnReasonCode != "" {
		msg += " (" + r.CmmMsgHeader.ReturnReasonCode + ")"
	}
	return msg
}

func (r *rtmsResponse) ok() bool {
	switch strings.TrimSpace(r.Header.ResultCode) {
	case "00", "000":
		return true
	}
	return false
}
