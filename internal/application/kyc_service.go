package application

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/internal/domain/entity"
	"github.com/civica-app/civica-backend/internal/domain/repository"
	"github.com/civica-app/civica-backend/pkg/apperror"
)

// KYCService stores identity document images and runs them through the
// document reader.
type KYCService struct {
	UoW        repository.UnitOfWork
	Store      DocumentStore
	Recognizer DocumentRecognizer
	Logger     logrus.FieldLogger
	Now        func() time.Time
}

// KYCSubmission is one document check. Back is only read for two-sided
// documents; Selfie and DocumentData are optional.
type KYCSubmission struct {
	DocumentType string
	Front        *entity.DocumentImage
	Back         *entity.DocumentImage
	Selfie       *entity.DocumentImage
	DocumentData map[string]string
}

type KYCReport struct {
	UserID        string            `json:"user_id,omitempty"`
	DocumentType  string            `json:"documentType"`
	Requested     string            `json:"requestedType"`
	Fields        map[string]string `json:"extractedData"`
	OverallStatus string            `json:"overallStatus"`
	FrontURL      string            `json:"front_url,omitempty"`
	BackURL       string            `json:"back_url,omitempty"`
	SelfieURL     string            `json:"selfie_url,omitempty"`
	CheckedAt     time.Time         `json:"checked_at"`
}

func (r *KYCReport) Valid() bool { return r.OverallStatus == entity.KYCStatusValid }

type SelfieReport struct {
	UserID    string    `json:"user_id"`
	SelfieURL string    `json:"selfie_url,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// clientDocumentFields are the keys a client may pre-fill; anything else is dropped.
var clientDocumentFields = map[string]struct{}{
	"documentNumber": {},
	"fullName":       {},
	"dateOfBirth":    {},
	"dateOfExpiry":   {},
	"nationality":    {},
	"gender":         {},
}

func (in *KYCSubmission) pages() (entity.DocumentType, []entity.DocumentImage, error) {
	dt, err := entity.ParseDocumentType(in.DocumentType)
	if err != nil {
		return "", nil, ErrUnsupportedDocument
	}
	if in.Front == nil || len(in.Front.Data) == 0 {
		return "", nil, apperror.Validation("front image is required")
	}
	if !dt.RequiresBack() {
		in.Back = nil
	} else if in.Back == nil || len(in.Back.Data) == 0 {
		return "", nil, ErrBackImageRequired
	}
	if in.Selfie != nil && len(in.Selfie.Data) == 0 {
		in.Selfie = nil
	}

	front := *in.Front
	front.Page = 0
	pages := []entity.DocumentImage{front}
	if in.Back != nil {
		back := *in.Back
		back.Page = 1
		pages = append(pages, back)
	}
	return dt, pages, nil
}

// Submit checks the document type, uploads the pages and the optional
// selfie, and returns the recognition report.
func (s *KYCService) Submit(ctx context.Context, userID string, in KYCSubmission) (*KYCReport, error) {
	dt, pages, err := in.pages()
	if err != nil {
		return nil, err
	}
	if _, err := s.UoW.Users().GetByID(ctx, userID); err != nil {
		return nil, notFound(err, ErrUserNotFound, "load user failed")
	}

	rep := &KYCReport{UserID: userID, Requested: string(dt), CheckedAt: nowFrom(s.Now)}
	if rep.FrontURL, err = s.upload(ctx, userID, "front", string(dt), in.Front); err != nil {
		return nil, err
	}
	if in.Back != nil {
		if rep.BackURL, err = s.upload(ctx, userID, "back", string(dt), in.Back); err != nil {
			return nil, err
		}
	}
	if in.Selfie != nil {
		if rep.SelfieURL, err = s.upload(ctx, userID, "selfie", "selfie", in.Selfie); err != nil {
			return nil, err
		}
	}

	if err := s.recognize(ctx, rep, pages, in.DocumentData); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"user_id": userID, "document": dt, "status": rep.OverallStatus, "selfie": in.Selfie != nil,
	}).Info("kyc document checked")
	return rep, nil
}

// Verify runs the recognition only. Nothing is uploaded.
func (s *KYCService) Verify(ctx context.Context, in KYCSubmission) (*KYCReport, error) {
	dt, pages, err := in.pages()
	if err != nil {
		return nil, err
	}
	rep := &KYCReport{Requested: string(dt), CheckedAt: nowFrom(s.Now)}
	if err := s.recognize(ctx, rep, pages, in.DocumentData); err != nil {
		return nil, err
	}
	return rep, nil
}

// SubmitSelfie stores a selfie on its own, next to the document pages.
func (s *KYCService) SubmitSelfie(ctx context.Context, userID string, selfie *entity.DocumentImage) (*SelfieReport, error) {
	if selfie == nil || len(selfie.Data) == 0 {
		return nil, apperror.Validation("selfie image is required")
	}
	if _, err := s.UoW.Users().GetByID(ctx, userID); err != nil {
		return nil, notFound(err, ErrUserNotFound, "load user failed")
	}
	url, err := s.upload(ctx, userID, "selfie", "selfie", selfie)
	if err != nil {
		return nil, err
	}
	return &SelfieReport{UserID: userID, SelfieURL: url, CheckedAt: nowFrom(s.Now)}, nil
}

// recognize fills rep from the reader. Client-supplied values sit under the
// extracted ones.
func (s *KYCService) recognize(ctx context.Context, rep *KYCReport, pages []entity.DocumentImage, clientData map[string]string) error {
	res, err := s.Recognizer.Recognize(ctx, pages)
	if err != nil {
		return apperror.Internal(err, "document recognition failed")
	}
	fields := make(map[string]string, len(clientData)+len(res.Fields))
	for k, v := range clientData {
		if _, ok := clientDocumentFields[k]; ok && strings.TrimSpace(v) != "" {
			fields[k] = strings.TrimSpace(v)
		}
	}
	for k, v := range res.Fields {
		fields[k] = v
	}
	rep.DocumentType = res.DocumentType
	rep.Fields = fields
	rep.OverallStatus = res.OverallStatus
	if rep.OverallStatus != entity.KYCStatusValid {
		rep.OverallStatus = entity.KYCStatusNotValid
	}
	return nil
}

func (s *KYCService) upload(ctx context.Context, userID, side, base string, img *entity.DocumentImage) (string, error) {
	if s.Store == nil {
		return "", nil
	}
	name := base + strings.ToLower(path.Ext(img.Filename))
	url, err := s.Store.Put(ctx, userID, side, name, img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		return "", apperror.Internal(err, "store document image failed")
	}
	return url, nil
}
