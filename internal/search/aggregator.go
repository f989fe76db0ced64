package search

import (
	"sort"
	"strings"
)

// dedupeRecords removes records sharing the exact same download URL, keeping
// the one with the most seeders. Cross-indexer duplicates with distinct URLs
// stay distinct: the same release on two indexers may have different seed
// health, so both records are worth returning.
func dedupeRecords(records []TorrentRecord) []TorrentRecord {
	if len(records) == 0 {
		return records
	}

	seen := make(map[string]int, len(records)) // download URL -> index in result
	result := make([]TorrentRecord, 0, len(records))

	for _, record := range records {
		if existingIdx, exists := seen[record.DownloadURL]; exists {
			if record.Seeders > result[existingIdx].Seeders {
				result[existingIdx] = record
			}
			continue
		}
		seen[record.DownloadURL] = len(result)
		result = append(result, record)
	}

	return result
}

// sortRecords orders records by seeders descending, then size descending,
// then title ascending. The order is deterministic regardless of the order
// in which the concurrent indexer calls completed.
func sortRecords(records []TorrentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Seeders != records[j].Seeders {
			return records[i].Seeders > records[j].Seeders
		}
		if records[i].SizeBytes != records[j].SizeBytes {
			return records[i].SizeBytes > records[j].SizeBytes
		}
		return strings.Compare(records[i].Title, records[j].Title) < 0
	})
}

// aggregate merges the per-indexer record lists into the final result.
func aggregate(perIndexer [][]TorrentRecord, statuses map[string]IndexerStatus) *Result {
	merged := make([]TorrentRecord, 0)
	for _, records := range perIndexer {
		merged = append(merged, records...)
	}

	merged = dedupeRecords(merged)
	sortRecords(merged)

	return &Result{
		Records:         merged,
		IndexerStatuses: statuses,
	}
}
