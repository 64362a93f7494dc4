package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"aptdeals/server/internal/models"
	"aptdeals/server/internal/normalize"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tradePage = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<response>
  <header><resultCode>000</resultCode><resultMsg>OK</resultMsg></header>
  <body>
    <items>
      <item>
        <aptNm>잠실엘스</aptNm>
        <dealAmount>  1,234,500</dealAmount>
        <dealYear>2024</dealYear><dealMonth>3</dealMonth><dealDay>15</dealDay>
        <excluUseAr>84.8</excluUseAr>
        <floor>12</floor>
        <umdNm>잠실동</umdNm>
        <cdealType> </cdealType>
      </item>
    </items>
    <numOfRows>1000</numOfRows><pageNo>1</pageNo><totalCount>1</totalCount>
  </body>
</response>`

const gatewayError = `<OpenAPI_ServiceResponse>
  <cmmMsgHeader>
    <errMsg>SERVICE ERROR</errMsg>
    <returnAuthMsg>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</returnAuthMsg>
    <returnReasonCode>30</returnReasonCode>
  </cmmMsgHeader>
</OpenAPI_ServiceResponse>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *RTMSClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewRTMSClient(Options{BaseURL: server.URL, Timeout: 2 * time.Second, PageSize: 2}, logger, nil)
}

func TestFetchTrade(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tradePath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "my+key/==", q.Get("serviceKey"))
		assert.Equal(t, "11710", q.Get("LAWD_CD"))
		assert.Equal(t, "2", q.Get("numOfRows"))
		mu.Lock()
		seen = append(seen, q.Get("DEAL_YMD"))
		mu.Unlock()
		fmt.Fprint(w, tradePage)
	})

	rows, err := client.Fetch(context.Background(), FetchRequest{
		ServiceKey:   "my%2Bkey%2F%3D%3D",
		DistrictCode: "11710",
		DealType:     models.DealTypeSale,
		Months:       []string{"202402", "202403"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"202402", "202403"}, seen)
	require.Len(t, rows, 2)
	assert.Equal(t, normalize.Row{
		"aptNm": "잠실엘스", "dealAmount": "1,234,500", "dealYear": "2024", "dealMonth": "3",
		"dealDay": "15", "excluUseAr": "84.8", "floor": "12", "umdNm": "잠실동",
	}, rows[0])
}

func TestFetchRentFollowsPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, rentPath, r.URL.Path)
		page := r.URL.Query().Get("pageNo")
		var items strings.Builder
		n := 2
		if page == "2" {
			n = 1
		}
		for i := 0; i < n; i++ {
			fmt.Fprintf(&items, "<item><aptNm>P%s-%d</aptNm><deposit>50,000</deposit></item>", page, i)
		}
		fmt.Fprintf(w, `<response><header><resultCode>00</resultCode><resultMsg>NORMAL SERVICE.</resultMsg></header>
<body><items>%s</items><numOfRows>2</numOfRows><pageNo>%s</pageNo><totalCount>3</totalCount></body></response>`, items.String(), page)
	})

	rows, err := client.Fetch(context.Background(), FetchRequest{
		ServiceKey:   "key",
		DistrictCode: "11710",
		DealType:     models.DealTypeJeonseWolse,
		Months:       []string{"202401"},
	})

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "P2-0", rows[2]["aptNm"])
}

func TestFetchEmptyMonth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<response><header><resultCode>000</resultCode><resultMsg>OK</resultMsg></header>
<body><items/><numOfRows>2</numOfRows><pageNo>1</pageNo><totalCount>0</totalCount></body></response>`)
	})

	rows, err := client.Fetch(context.Background(), FetchRequest{
		ServiceKey: "key", DistrictCode: "11710", DealType: models.DealTypeSale, Months: []string{"202401"},
	})

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errText string
	}{
		{
			name: "Gateway error document",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, gatewayError)
			},
			errText: "SERVICE_KEY_IS_NOT_REGISTERED_ERROR (30)",
		},
		{
			name: "API result code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<response><header><resultCode>03</resultCode><resultMsg>NO_DATA</resultMsg></header></response>`)
			},
			errText: "03 NO_DATA",
		},
		{
			name: "HTTP status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			errText: "HTTP 500",
		},
		{
			name: "Malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<response><header>")
			},
			errText: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Fetch(context.Background(), FetchRequest{
				ServiceKey: "key", DistrictCode: "11710", DealType: models.DealTypeSale, Months: []string{"202401"},
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrDataSourceUnavailable))
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestFetchDeadlineKeepsCause(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(time.Second):
		}
		fmt.Fprint(w, tradePage)
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, FetchRequest{
		ServiceKey: "key", DistrictCode: "11710", DealType: models.DealTypeSale, Months: []string{"202401"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataSourceUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestFetchUnknownDealType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Fetch(context.Background(), FetchRequest{DealType: "LEASE", Months: []string{"202401"}})
	assert.True(t, errors.Is(err, models.ErrInvalidQuery))
}

func TestDecodeServiceKey(t *testing.T) {
	assert.Equal(t, "abc+def==", decodeServiceKey("abc+def=="))
	assert.Equal(t, "abc+def==", decodeServiceKey("abc%2Bdef%3D%3D"))
	assert.Equal(t, "bad%zz", decodeServiceKey(" bad%zz "))
}
