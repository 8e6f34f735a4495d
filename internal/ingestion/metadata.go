package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Source kinds recorded on Metadata.
const (
	KindText = "text"
	KindFile = "file"
	KindURL  = "url"
)

// Metadata describes where a job description came from.
type Metadata struct {
	Kind      string `json:"kind"`
	Location  string `json:"location,omitempty"` // file path or URL
	Platform  string `json:"platform,omitempty"` // detected job board platform
	Timestamp string `json:"timestamp"`          // RFC3339 format
	Hash      string `json:"hash"`               // SHA256 hex digest of the cleaned text
	Chars     int    `json:"chars"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content, kind, location string) *Metadata {
	return &Metadata{
		Kind:      kind,
		Location:  location,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Chars:     utf8.RuneCountInString(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
