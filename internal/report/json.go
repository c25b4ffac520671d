package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

// EncodeJSON writes findings as an indented JSON array. A nil or empty slice
// is written as [] so the file always decodes to a sequence.
func EncodeJSON(w io.Writer, findings []models.Finding) error {
	if findings == nil {
		findings = []models.Finding{}
	}
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write findings: %w", err)
	}
	return nil
}

// DecodeJSON reads a findings array written by EncodeJSON. Unknown keys are
// rejected so a decoded report always re-encodes to the same content.
func DecodeJSON(r io.Reader) ([]models.Finding, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	findings := []models.Finding{}
	if err := dec.Decode(&findings); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	if findings == nil {
		findings = []models.Finding{}
	}
	return findings, nil
}

// MarshalJSON returns the encoded findings as bytes.
func MarshalJSON(findings []models.Finding) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, findings); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
