package admin

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantStart int
		wantEnd   int
		wantLen   int
	}{
		{"first", 1, 1, 1, 10, 10},
		{"last partial", 3, 3, 21, 23, 3},
		{"clamped high", 9, 3, 21, 23, 3},
		{"clamped low", 0, 1, 1, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, DefaultPageSize)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, 3, p.MaxPage)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEnd, p.End)
			assert.Len(t, p.Items, tt.wantLen)
		})
	}

	empty := Paginate([]int(nil), 4, 0)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.MaxPage)
	assert.Equal(t, 0, empty.Start)
	assert.NotNil(t, empty.Items)
}

func TestSearchSatpam(t *testing.T) {
	items := []Satpam{
		{ID: 1, Name: "Budi Santoso", Email: "budi@siaga.test"},
		{ID: 2, Name: "Rina", Email: "RINA.W@siaga.test"},
		{ID: 3, Name: "Agus", Email: "agus@siaga.test"},
	}

	assert.Len(t, SearchSatpam(items, ""), 3)
	assert.Equal(t, int64(1), SearchSatpam(items, "SANTOSO")[0].ID)
	assert.Equal(t, int64(2), SearchSatpam(items, "rina.w")[0].ID)
	assert.Empty(t, SearchSatpam(items, "zzz"))
}

func TestOpenDuration(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		clockIn *string
		want    string
	}{
		{"missing", nil, "-"},
		{"empty", str(""), "-"},
		{"invalid", str("yesterday"), "-"},
		{"future", str("2026-03-02T11:00:00Z"), "0m"},
		{"under a minute", str("2026-03-02T09:59:30Z"), "0m"},
		{"minutes", str("2026-03-02T09:15:00Z"), "45m"},
		{"whole hours", str("2026-03-02T08:00:00Z"), "2h"},
		{"hours and minutes", str("2026-03-01T22:30:00Z"), "11h 30m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OpenDuration(tt.clockIn, now))
		})
	}
}

func TestOpenIDs(t *testing.T) {
	ids := OpenIDs([]AttendanceItem{{AttendanceID: 4}, {AttendanceID: 9}})
	assert.True(t, ids[4])
	assert.True(t, ids[9])
	assert.False(t, ids[5])
}

func TestFilterSwaps(t *testing.T) {
	items := []ShiftSwapRequest{{ID: 1, Status: SwapPending}, {ID: 2, Status: SwapApproved}, {ID: 3, Status: SwapPending}}
	assert.Len(t, FilterSwaps(items, ""), 3)
	assert.Len(t, FilterSwaps(items, SwapPending), 2)
	assert.Empty(t, FilterSwaps(items, SwapRejected))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEncodePhoto(t *testing.T) {
	t.Run("small photo kept", func(t *testing.T) {
		data := pngBytes(t, 40, 30)
		url, err := EncodePhoto("face.png", data, DefaultMaxPhotoDimension)
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data), url)
	})

	t.Run("large photo scaled", func(t *testing.T) {
		url, err := EncodePhoto("face.png", pngBytes(t, 400, 100), 100)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/jpeg;base64,"))
		require.NoError(t, err)
		cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Width)
		assert.Equal(t, 25, cfg.Height)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := EncodePhoto("notes.txt", []byte("hello there"), 0)
		var nie *NotImageError
		require.True(t, errors.As(err, &nie))
		assert.Equal(t, "notes.txt", nie.Name)
	})
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "notblank", "email": "email"}}
	assert.Equal(t, "invalid input: email (must be an e-mail address), name (required)", err.Error())
	assert.Equal(t, err.Fields, err.ValidationFields())
}

func TestValidateNil(t *testing.T) {
	assert.NoError(t, Validate(nil))
}
