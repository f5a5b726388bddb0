package model

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
)

// UnknownTitle is the sentinel title for pages whose title was empty or
// could not be read by the capture layer.
const UnknownTitle = "Unknown"

// UnableToDisplay replaces a title that cannot be rendered as text.
const UnableToDisplay = "Unable to Display"

// CapturedPage is one target as handed over by the capture layer.
// Category and CredentialNote start empty and are filled once by the
// classification step before the report is built.
type CapturedPage struct {
	// ID is the row id in the result store. Zero when not persisted.
	ID int64 `json:"id,omitempty"`

	// RemoteSystem is the canonical URL of the target.
	// Use NormalizeRemoteSystem before assigning raw input.
	RemoteSystem string `json:"remote_system"`

	// PageTitle is the decoded <title> text or UnknownTitle.
	PageTitle string `json:"page_title"`

	// SourceCode is the raw HTML body. Nil when the capture failed
	// before any body was read.
	SourceCode *string `json:"source_code,omitempty"`

	// Headers maps response header names to values.
	Headers map[string]string `json:"headers,omitempty"`

	// ErrorState is empty on success.
	ErrorState ErrorState `json:"error_state,omitempty"`

	// Category is the classification tag. The zero value is uncategorized.
	Category Category `json:"category,omitempty"`

	// CredentialNote lists matching default credentials, newline separated.
	CredentialNote string `json:"credential_note,omitempty"`

	// ScreenshotPath and SourcePath are relative to the report directory.
	ScreenshotPath string `json:"screenshot_path,omitempty"`
	SourcePath     string `json:"source_path,omitempty"`

	// Resolved is the IP address the host resolved to, if known.
	Resolved string `json:"resolved,omitempty"`

	// SSLError is set when the certificate could not be validated.
	SSLError bool `json:"ssl_error,omitempty"`

	// Blank is set when the page rendered nothing useful.
	Blank bool `json:"blank,omitempty"`

	// SourceHash is the SHA3-256 of SourceCode, hex encoded.
	SourceHash string `json:"source_hash,omitempty"`
}

// HasSource reports whether the page carries a body.
func (p *CapturedPage) HasSource() bool {
	return p != nil && p.SourceCode != nil
}

// Source returns the body or an empty string.
func (p *CapturedPage) Source() string {
	if !p.HasSource() {
		return ""
	}
	return *p.SourceCode
}

// SetSource stores a copy of s as the page body.
func (p *CapturedPage) SetSource(s string) {
	p.SourceCode = &s
}

// Failed reports whether the capture layer recorded an error for this page.
func (p *CapturedPage) Failed() bool {
	return p.ErrorState != ""
}

// ComputeHash sets SourceHash from the current body.
func (p *CapturedPage) ComputeHash() {
	if !p.HasSource() || len(*p.SourceCode) == 0 {
		p.SourceHash = ""
		return
	}
	sum := sha3.Sum256([]byte(*p.SourceCode))
	p.SourceHash = hex.EncodeToString(sum[:])
}

// DisplayTitle returns the title as it should be rendered.
// Titles that are not valid UTF-8 come back as UnableToDisplay. Records read
// through encoding/json are always valid UTF-8, so the import command marks
// undecodable titles before decoding.
func (p *CapturedPage) DisplayTitle() string {
	if !utf8.ValidString(p.PageTitle) {
		return UnableToDisplay
	}
	return p.PageTitle
}

// NormalizeRemoteSystem turns a raw target into the canonical form used as
// the record key: a scheme is added when missing (https for :443 and :8443,
// http otherwise) and default ports are dropped.
func NormalizeRemoteSystem(raw string) string {
	remote := strings.TrimSpace(raw)
	if !strings.HasPrefix(remote, "http://") && !strings.HasPrefix(remote, "https://") {
		if strings.Contains(remote, ":8443") || strings.Contains(remote, ":443") {
			remote = "https://" + remote
		} else {
			remote = "http://" + remote
		}
	}

	switch {
	case strings.HasPrefix(remote, "http://"):
		remote = strings.TrimSuffix(remote, ":80")
	case strings.HasPrefix(remote, "https://"):
		remote = strings.TrimSuffix(remote, ":443")
	}
	return remote
}
