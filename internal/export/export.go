// SPDX-License-Identifier: MIT
/*
Package export serializes analysis outcomes for external consumers.
The wire shape is fixed: UTF-8 JSON, 2-space indentation, fields in
the order score, analysisResult, timestamp.
*/
package export

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"voicegrade/internal/analysis"
)

// Document is one exported analysis outcome.
type Document struct {
	Score          analysis.Score  `json:"score"`
	AnalysisResult analysis.Result `json:"analysisResult"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Write serializes the outcome to w.
func Write(w io.Writer, result analysis.Result, score analysis.Score, ts time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{
		Score:          score,
		AnalysisResult: result,
		Timestamp:      ts,
	})
}

// WriteFile serializes the outcome to a file at path.
func WriteFile(path string, result analysis.Result, score analysis.Score, ts time.Time) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, result, score, ts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Parse reads an exported document back. Used by consumers and the
// round-trip tests.
func Parse(data []byte) (Document, error) {
	var doc Document
	err := json.Unmarshal(data, &doc)
	return doc, err
}
