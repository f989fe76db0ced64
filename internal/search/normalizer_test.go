package search

import (
	"errors"
	"testing"
	"time"
)

func okResponse(body string) RawResponse {
	return RawResponse{
		IndexerID:   "alpha",
		IndexerName: "Alpha",
		State:       StateOK,
		StatusCode:  200,
		Elapsed:     120 * time.Millisecond,
		Body:        []byte(body),
	}
}

func TestNormalize_NonOKResponsesYieldNoRecords(t *testing.T) {
	tests := []struct {
		name string
		resp RawResponse
		want ResponseState
	}{
		{
			name: "timed out",
			resp: RawResponse{IndexerID: "alpha", State: StateTimedOut, Err: errors.New("timed out after 30s")},
			want: StateTimedOut,
		},
		{
			name: "errored",
			resp: RawResponse{IndexerID: "alpha", State: StateError, Err: errors.New("upstream returned status 500")},
			want: StateError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, status := Normalize(tt.resp)
			if records != nil {
				t.Errorf("expected no records, got %d", len(records))
			}
			if status.State != tt.want {
				t.Errorf("status.State = %q, want %q", status.State, tt.want)
			}
			if status.Error == "" {
				t.Error("expected status error message")
			}
		})
	}
}

func TestNormalize_GarbageBodyDegradesToErrorStatus(t *testing.T) {
	records, status := Normalize(okResponse(`<html>login required</html>`))
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if status.State != StateError {
		t.Errorf("status.State = %q, want %q", status.State, StateError)
	}
	if status.Error == "" {
		t.Error("expected a parse error message")
	}
}

func TestNormalize_CandidateFields(t *testing.T) {
	body := `{"Results": [
		{"ReleaseTitle": "Dune 2021 1080p", "DownloadUrl": "http://x/a.torrent", "Seeds": 42, "ContentSize": 1610612736},
		{"Title": "Dune 2021 2160p", "MagnetUri": "magnet:?xt=b", "Link": "http://x/b.torrent", "Seeders": 7, "Peers": 10}
	]}`

	records, status := Normalize(okResponse(body))
	if status.State != StateOK {
		t.Fatalf("status.State = %q, want ok", status.State)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Title != "Dune 2021 1080p" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.DownloadURL != "http://x/a.torrent" {
		t.Errorf("DownloadURL = %q", first.DownloadURL)
	}
	if first.Seeders != 42 {
		t.Errorf("Seeders = %d, want 42", first.Seeders)
	}
	if first.SizeBytes != 1610612736 {
		t.Errorf("SizeBytes = %d, want 1610612736", first.SizeBytes)
	}

	second := records[1]
	// Magnet wins over the direct link.
	if second.DownloadURL != "magnet:?xt=b" {
		t.Errorf("DownloadURL = %q, want magnet link", second.DownloadURL)
	}
	// Leechers derived from Peers - Seeders when no Leechers field.
	if second.Leechers != 3 {
		t.Errorf("Leechers = %d, want 3", second.Leechers)
	}
}

func TestNormalize_DropsUnusableItems(t *testing.T) {
	body := `{"Results": [
		{"Title": "No download url at all", "Seeders": 100},
		{"Link": "http://x/untitled.torrent", "Seeders": 100},
		{"Title": "   ", "Link": "http://x/blank.torrent"},
		{"Title": "Keeper", "Link": "http://x/keeper.torrent"}
	]}`

	records, status := Normalize(okResponse(body))
	if status.State != StateOK {
		t.Fatalf("status.State = %q, want ok", status.State)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the usable record, got %d", len(records))
	}
	if records[0].Title != "Keeper" {
		t.Errorf("Title = %q, want Keeper", records[0].Title)
	}
}

func TestNormalize_IndexerAttribution(t *testing.T) {
	body := `{"Results": [{"Title": "T", "Link": "http://x/t.torrent"}]}`
	records, _ := Normalize(okResponse(body))
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].IndexerID != "alpha" || records[0].IndexerName != "Alpha" {
		t.Errorf("attribution = %s/%s, want alpha/Alpha", records[0].IndexerID, records[0].IndexerName)
	}
}

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		in     string
		want   uint64
		wantOK bool
	}{
		{"1610612736", 1610612736, true},
		{"1.5 GB", 1610612736, true},
		{"1.5GB", 1610612736, true},
		{"1.5 GiB", 1610612736, true},
		{"700 MB", 734003200, true},
		{"2 TB", 2199023255552, true},
		{"512", 512, true},
		{"0", 0, true},
		{"", 0, false},
		{"unknown", 0, false},
		{"-5 GB", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseHumanSize(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("parseHumanSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFirstCount_GarbageNormalizesToZero(t *testing.T) {
	tests := []struct {
		name string
		item map[string]any
		want uint
	}{
		{"missing", map[string]any{}, 0},
		{"negative", map[string]any{"Seeders": float64(-3)}, 0},
		{"garbage string", map[string]any{"Seeders": "lots"}, 0},
		{"numeric string", map[string]any{"Seeders": "17"}, 17},
		{"float", map[string]any{"Seeders": float64(9)}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstCount(tt.item, seederFields); got != tt.want {
				t.Errorf("firstCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFirstDate(t *testing.T) {
	item := map[string]any{"PublishDate": "2024-03-01T12:30:00Z"}
	got := firstDate(item, dateFields)
	if got == nil {
		t.Fatal("expected a parsed date")
	}
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("date = %v, want %v", got, want)
	}

	// Unparseable dates mean unknown, not a dropped record.
	if d := firstDate(map[string]any{"PublishDate": "last tuesday"}, dateFields); d != nil {
		t.Errorf("expected nil for unparseable date, got %v", d)
	}
}
