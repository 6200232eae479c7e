package entity

import (
	"fmt"
	"strings"
)

type DocumentType string

const (
	DocumentCNI      DocumentType = "cni"
	DocumentPassport DocumentType = "passport"
	DocumentPermit   DocumentType = "permit"
)

func ParseDocumentType(s string) (DocumentType, error) {
	switch v := DocumentType(strings.ToLower(strings.TrimSpace(s))); v {
	case DocumentCNI, DocumentPassport, DocumentPermit:
		return v, nil
	default:
		return "", fmt.Errorf("unknown document type %q", s)
	}
}

// RequiresBack reports whether the document has a back side to capture.
func (d DocumentType) RequiresBack() bool {
	switch d {
	case DocumentCNI, DocumentPermit:
		return true
	case DocumentPassport:
		return false
	default:
		return false
	}
}

// DocumentImage is one captured page. Page 0 is the front.
type DocumentImage struct {
	Page        int
	Filename    string
	ContentType string
	Data        []byte
}

const (
	KYCStatusValid    = "valid"
	KYCStatusNotValid = "not valid"
)

// RecognitionResult is what the document reader extracted.
type RecognitionResult struct {
	DocumentType  string            `json:"documentType"`
	Fields        map[string]string `json:"extractedData"`
	OverallStatus string            `json:"overallStatus"`
}

func (r *RecognitionResult) Field(name string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}
