// Package regula talks to the Regula Document Reader web API.
package regula

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/civica-app/civica-backend/internal/domain/entity"
)

const (
	lightWhite = 6

	resultDocumentType = 9
	resultStatus       = 33
	resultText         = 36

	checkOK = 1
)

// Client implements document recognition over HTTP.
type Client struct {
	Host      string
	APIKey    string
	AuthToken string
	HTTP      *http.Client
}

func NewClient(host, apiKey, authToken string, timeout time.Duration) *Client {
	return &Client{
		Host:      strings.TrimRight(host, "/"),
		APIKey:    apiKey,
		AuthToken: authToken,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

type processRequest struct {
	ProcessParam processParam `json:"processParam"`
	List         []pageImage  `json:"List"`
}

type processParam struct {
	Scenario string `json:"scenario"`
}

type pageImage struct {
	ImageData imageData `json:"ImageData"`
	Light     int       `json:"light"`
	PageIdx   int       `json:"page_idx"`
}

type imageData struct {
	Image string `json:"image"`
}

type processResponse struct {
	ContainerList struct {
		List []container `json:"List"`
	} `json:"ContainerList"`
}

type container struct {
	ResultType   int `json:"result_type"`
	OneCandidate *struct {
		DocumentName string `json:"DocumentName"`
	} `json:"OneCandidate,omitempty"`
	Status *struct {
		OverallStatus int `json:"overallStatus"`
	} `json:"Status,omitempty"`
	Text *struct {
		FieldList []struct {
			FieldName string `json:"fieldName"`
			Value     string `json:"value"`
		} `json:"fieldList"`
	} `json:"Text,omitempty"`
}

// well-known Regula field names mapped to stable keys
var specificFields = map[string]string{
	"Document Number":         "documentNumber",
	"Date of Birth":           "dateOfBirth",
	"Date of Expiry":          "dateOfExpiry",
	"Nationality":             "nationality",
	"Sex":                     "gender",
	"Surname And Given Names": "fullName",
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Host+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-CLIENT-KEY", c.APIKey)
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("regula %s %s: %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Recognize submits the pages in one full-process request.
func (c *Client) Recognize(ctx context.Context, images []entity.DocumentImage) (*entity.RecognitionResult, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("regula: no images")
	}
	req := processRequest{ProcessParam: processParam{Scenario: "FullProcess"}}
	for _, img := range images {
		req.List = append(req.List, pageImage{
			ImageData: imageData{Image: base64.StdEncoding.EncodeToString(img.Data)},
			Light:     lightWhite,
			PageIdx:   img.Page,
		})
	}
	var resp processResponse
	if err := c.do(ctx, http.MethodPost, "/api/process", req, &resp); err != nil {
		return nil, err
	}
	return resp.result(), nil
}

func (r *processResponse) result() *entity.RecognitionResult {
	out := &entity.RecognitionResult{Fields: map[string]string{}, OverallStatus: entity.KYCStatusNotValid}
	for _, ct := range r.ContainerList.List {
		switch ct.ResultType {
		case resultDocumentType:
			if ct.OneCandidate != nil {
				out.DocumentType = ct.OneCandidate.DocumentName
			}
		case resultStatus:
			if ct.Status != nil && ct.Status.OverallStatus == checkOK {
				out.OverallStatus = entity.KYCStatusValid
			}
		case resultText:
			if ct.Text == nil {
				continue
			}
			for _, f := range ct.Text.FieldList {
				if f.FieldName == "" || f.Value == "" {
					continue
				}
				out.Fields[f.FieldName] = f.Value
				if key, ok := specificFields[f.FieldName]; ok {
					out.Fields[key] = f.Value
				}
			}
		}
	}
	return out
}

// Health returns the reader API version.
func (c *Client) Health(ctx context.Context) (string, error) {
	var body struct {
		Version string `json:"version"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/healthz", nil, &body); err != nil {
		return "", err
	}
	return body.Version, nil
}
