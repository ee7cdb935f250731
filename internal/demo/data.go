package demo

import "fmt"

// SizeRanges are the rock size buckets reported by the crusher nodes.
var SizeRanges = []string{"<30mm", "30-50mm", "50-80mm", "80-150mm", ">150mm"}

// Nodes are the sample crusher nodes.
var Nodes = []string{"node-1", "node-2", "node-3"}

// Totals returns per-node counts per size range.
func Totals() map[string]map[string]int {
	out := make(map[string]map[string]int, len(Nodes))
	for i, node := range Nodes {
		row := make(map[string]int, len(SizeRanges))
		for j, size := range SizeRanges {
			row[size] = (i+1)*120 + (len(SizeRanges)-j)*37
		}
		out[node] = row
	}
	return out
}

// RangeTotals sums Totals across nodes, in SizeRanges order.
func RangeTotals() []int {
	totals := Totals()
	out := make([]int, len(SizeRanges))
	for _, node := range Nodes {
		for j, size := range SizeRanges {
			out[j] += totals[node][size]
		}
	}
	return out
}

// DailyTrend returns hourly counts over the last day for one size range.
func DailyTrend(size int) (labels []string, values []int) {
	for h := 0; h < 24; h++ {
		labels = append(labels, fmt.Sprintf("%02d:00", h))
		values = append(values, 10+((h*7+size*11)%23)*(size+1))
	}
	return labels, values
}

// HistoryRow is one day of history.
type HistoryRow struct {
	Day    string
	Counts []int
}

// History returns a week of per-range totals.
func History() []HistoryRow {
	rows := make([]HistoryRow, 0, 7)
	for d := 6; d >= 0; d-- {
		counts := make([]int, len(SizeRanges))
		for j := range SizeRanges {
			counts[j] = 200 + ((d+1)*(j+3)*17)%150
		}
		rows = append(rows, HistoryRow{Day: fmt.Sprintf("day -%d", d), Counts: counts})
	}
	return rows
}
