package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteReport renders the aggregates as a terminal table, limited to
// the top speakers by speech count. top <= 0 means no limit.
func WriteReport(w io.Writer, stats []SpeakerStats, top int) {
	if top > 0 && len(stats) > top {
		stats = stats[:top]
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		"#", "Speaker", "Speeches", "Words", "Med. Words", "Sessions", "Share %",
	})
	for i, s := range stats {
		t.AppendRow(table.Row{
			i + 1,
			s.Speaker,
			s.SpeechCount,
			s.TotalWords,
			fmt.Sprintf("%.1f", s.MedianWords),
			len(s.Sessions),
			fmt.Sprintf("%.2f", s.Contribution),
		})
	}
	t.Render()
}

var csvHeader = []string{
	"Rank",
	"Speaker",
	"Speech Count",
	"Total Words",
	"Total Characters",
	"Mean Words",
	"Median Words",
	"Mean Characters",
	"Median Characters",
	"Sessions",
	"Session Share Percent",
}

// WriteCSV exports the aggregates as a spreadsheet-friendly summary,
// one row per speaker in the given order.
func WriteCSV(w io.Writer, stats []SpeakerStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, s := range stats {
		row := []string{
			strconv.Itoa(i + 1),
			s.Speaker,
			strconv.Itoa(s.SpeechCount),
			strconv.Itoa(s.TotalWords),
			strconv.Itoa(s.TotalChars),
			strconv.FormatFloat(s.MeanWords, 'f', 1, 64),
			strconv.FormatFloat(s.MedianWords, 'f', 1, 64),
			strconv.FormatFloat(s.MeanChars, 'f', 1, 64),
			strconv.FormatFloat(s.MedianChars, 'f', 1, 64),
			strings.Join(s.Sessions, ";"),
			strconv.FormatFloat(s.Contribution, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
