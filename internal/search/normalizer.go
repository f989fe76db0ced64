package search

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Candidate field names per canonical attribute, tried in order. The upstream
// payload varies by indexer; field presence is never assumed.
var (
	titleFields    = []string{"Title", "ReleaseTitle", "Name"}
	magnetFields   = []string{"MagnetUri", "MagnetUrl"}
	linkFields     = []string{"Link", "DownloadUrl", "DownloadLink"}
	pageFields     = []string{"Details", "Comments", "Guid"}
	categoryFields = []string{"CategoryDesc", "Category"}
	sizeFields     = []string{"Size", "ContentSize", "FileSize"}
	seederFields   = []string{"Seeders", "Seeds"}
	leecherFields  = []string{"Leechers"}
	peerFields     = []string{"Peers"}
	dateFields     = []string{"PublishDate", "PublishedDate", "PubDate"}
)

// dateLayouts are the accepted publish-date formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// resultsEnvelope is the loosely structured shape of a Jackett results body.
type resultsEnvelope struct {
	Results []map[string]any `json:"Results"`
}

// Normalize parses one raw indexer response into canonical torrent records and
// the status entry for that indexer. Responses that errored or timed out
// contribute zero records. A response with an unparseable body degrades to
// zero records plus an error status; it never fails the search.
func Normalize(resp RawResponse) ([]TorrentRecord, IndexerStatus) {
	status := IndexerStatus{
		State:     resp.State,
		ElapsedMs: resp.Elapsed.Milliseconds(),
	}
	if resp.Err != nil {
		status.Error = resp.Err.Error()
	}
	if resp.State != StateOK {
		return nil, status
	}

	var envelope resultsEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		status.State = StateError
		status.Error = fmt.Sprintf("failed to parse response: %v", err)
		return nil, status
	}

	records := make([]TorrentRecord, 0, len(envelope.Results))
	for _, item := range envelope.Results {
		record, ok := normalizeItem(item, resp.IndexerID, resp.IndexerName)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	return records, status
}

// normalizeItem converts one raw item into a TorrentRecord. Items without a
// usable title or download URL are dropped, not emitted with empty fields.
func normalizeItem(item map[string]any, indexerID, indexerName string) (TorrentRecord, bool) {
	title := strings.TrimSpace(firstString(item, titleFields))
	if title == "" {
		return TorrentRecord{}, false
	}

	// Magnet URI wins over a direct torrent-file link.
	downloadURL := strings.TrimSpace(firstString(item, magnetFields))
	if downloadURL == "" {
		downloadURL = strings.TrimSpace(firstString(item, linkFields))
	}
	if downloadURL == "" {
		return TorrentRecord{}, false
	}

	seeders := firstCount(item, seederFields)
	leechers := firstCount(item, leecherFields)
	if !hasAny(item, leecherFields) {
		// Jackett reports Peers as seeders+leechers.
		if peers := firstCount(item, peerFields); peers > seeders {
			leechers = peers - seeders
		}
	}

	return TorrentRecord{
		Title:       title,
		IndexerID:   indexerID,
		IndexerName: indexerName,
		SizeBytes:   firstSize(item, sizeFields),
		Seeders:     seeders,
		Leechers:    leechers,
		PublishDate: firstDate(item, dateFields),
		DownloadURL: downloadURL,
		PageURL:     strings.TrimSpace(firstString(item, pageFields)),
		Category:    firstCategory(item, categoryFields),
	}, true
}

// firstString returns the first candidate field holding a non-empty string.
func firstString(item map[string]any, fields []string) string {
	for _, field := range fields {
		if s, ok := item[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func hasAny(item map[string]any, fields []string) bool {
	for _, field := range fields {
		if _, ok := item[field]; ok {
			return true
		}
	}
	return false
}

// firstCount returns the first candidate field parseable as a non-negative
// integer. Missing, negative, or garbage values normalize to 0.
func firstCount(item map[string]any, fields []string) uint {
	for _, field := range fields {
		switch v := item[field].(type) {
		case float64:
			if v >= 0 {
				return uint(v)
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n >= 0 {
				return uint(n)
			}
		}
	}
	return 0
}

// firstSize returns the first candidate field parseable as a byte count.
// Unparseable input means unknown size, never a dropped item.
func firstSize(item map[string]any, fields []string) uint64 {
	for _, field := range fields {
		switch v := item[field].(type) {
		case float64:
			if v >= 0 {
				return uint64(v)
			}
		case string:
			if size, ok := parseHumanSize(v); ok {
				return size
			}
		}
	}
	return 0
}

var sizePattern = regexp.MustCompile(`(?i)^([0-9]*\.?[0-9]+)\s*([KMGTP]?I?B?)$`)

// Binary multipliers: "1.5 GB" means 1.5 * 2^30 bytes. KB and KiB are treated
// alike, matching how trackers report sizes.
var sizeMultipliers = map[string]float64{
	"":    1,
	"B":   1,
	"KB":  1 << 10,
	"KIB": 1 << 10,
	"MB":  1 << 20,
	"MIB": 1 << 20,
	"GB":  1 << 30,
	"GIB": 1 << 30,
	"TB":  1 << 40,
	"TIB": 1 << 40,
	"PB":  1 << 50,
	"PIB": 1 << 50,
}

// parseHumanSize parses either a raw byte count ("1610612736") or a
// human-readable size ("1.5 GB") into bytes.
func parseHumanSize(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, true
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value < 0 {
		return 0, false
	}

	multiplier, ok := sizeMultipliers[strings.ToUpper(m[2])]
	if !ok {
		return 0, false
	}

	return uint64(value * multiplier), true
}

// firstDate returns the first candidate field parseable in an accepted date
// format, or nil when none parses.
func firstDate(item map[string]any, fields []string) *time.Time {
	for _, field := range fields {
		s, ok := item[field].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

// firstCategory resolves the category, accepting either a descriptive string
// or a numeric Torznab category id.
func firstCategory(item map[string]any, fields []string) string {
	for _, field := range fields {
		switch v := item[field].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.Itoa(int(v))
		}
	}
	return ""
}
